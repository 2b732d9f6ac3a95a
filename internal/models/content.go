package models

// Profile is the singleton "basic info" record shown in the hero and about sections
type Profile struct {
	Name            string `yaml:"name" json:"name"`
	Education       string `yaml:"education" json:"education"`
	Major           string `yaml:"major" json:"major"`
	ExperienceLabel string `yaml:"experience" json:"experience"`
	PhotoRef        string `yaml:"photo" json:"photo"`
}

// ProfilePatch holds a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name            *string `json:"name,omitempty"`
	Education       *string `json:"education,omitempty"`
	Major           *string `json:"major,omitempty"`
	ExperienceLabel *string `json:"experience,omitempty"`
	PhotoRef        *string `json:"photo,omitempty"`
}

// Apply merges the patch into p
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Education != nil {
		p.Education = *patch.Education
	}
	if patch.Major != nil {
		p.Major = *patch.Major
	}
	if patch.ExperienceLabel != nil {
		p.ExperienceLabel = *patch.ExperienceLabel
	}
	if patch.PhotoRef != nil {
		p.PhotoRef = *patch.PhotoRef
	}
}

// Section is a titled block of narrative content
type Section struct {
	ID         string `yaml:"id" json:"id"`
	Title      string `yaml:"title" json:"title"`
	Content    string `yaml:"content" json:"content"`
	ShowInHome bool   `yaml:"show_in_home" json:"showInHome"`
}

// SectionPatch holds a partial section update
type SectionPatch struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	ShowInHome *bool   `json:"showInHome,omitempty"`
}

// Apply merges the patch into s
func (patch SectionPatch) Apply(s *Section) {
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.ShowInHome != nil {
		s.ShowInHome = *patch.ShowInHome
	}
}

// Skill is a named capability with a 0-100 proficiency level
type Skill struct {
	ID       int64  `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"`
	Category string `yaml:"category" json:"category"`
	IconRef  string `yaml:"icon" json:"icon"`
}

// NewSkill is a skill before the store has assigned it an ID
type NewSkill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category"`
	IconRef  string `json:"icon"`
}

// SkillPatch holds a partial skill update
type SkillPatch struct {
	Name     *string `json:"name,omitempty"`
	Level    *int    `json:"level,omitempty"`
	Category *string `json:"category,omitempty"`
	IconRef  *string `json:"icon,omitempty"`
}

// Apply merges the patch into s. The ID is never touched.
func (patch SkillPatch) Apply(s *Skill) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Level != nil {
		s.Level = *patch.Level
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.IconRef != nil {
		s.IconRef = *patch.IconRef
	}
}

// ContentSnapshot is a point-in-time copy of the whole content tree
type ContentSnapshot struct {
	Version   uint64    `json:"version"`
	BasicInfo Profile   `json:"basicInfo"`
	Sections  []Section `json:"sections"`
	Skills    []Skill   `json:"skills"`
}
