package models

// HomeSection is a section as shown on the home page
type HomeSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	FullContent string `json:"fullContent"`
}

// HomeViewModel is the derived projection of the content tree for the home page
type HomeViewModel struct {
	Content   []HomeSection `json:"content"`
	Skills    []Skill       `json:"skills"`
	BasicInfo Profile       `json:"basicInfo"`
}

// SkillGroups maps a category label to its skills in original order.
// Categories lists the keys in the order they were first seen.
type SkillGroups struct {
	Categories []string           `json:"categories"`
	ByCategory map[string][]Skill `json:"byCategory"`
}

// Icon is a presentation handle for a skill icon
type Icon struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Fallback bool   `json:"fallback,omitempty"`
}

// SkillView is a skill with its icon resolved for rendering
type SkillView struct {
	Skill
	Icon Icon `json:"resolvedIcon"`
}
