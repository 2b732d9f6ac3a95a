package pages

import (
	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/models"
)

// AboutPage is the payload of the about page
type AboutPage struct {
	Version     uint64             `json:"version"`
	BasicInfo   models.Profile     `json:"basicInfo"`
	Sections    []models.Section   `json:"sections"`
	Skills      []models.SkillView `json:"skills"`
	SkillGroups models.SkillGroups `json:"skillGroups"`
}

// AboutController serves the full profile with every section and skill
type AboutController struct {
	deriver *content.Deriver
}

// NewAboutController creates an about controller
func NewAboutController(deriver *content.Deriver) *AboutController {
	return &AboutController{deriver: deriver}
}

// Page builds the about page from a single consistent snapshot
func (c *AboutController) Page() AboutPage {
	snap, groups := c.deriver.About()
	return AboutPage{
		Version:     snap.Version,
		BasicInfo:   snap.BasicInfo,
		Sections:    snap.Sections,
		Skills:      content.SkillViews(snap.Skills),
		SkillGroups: groups,
	}
}
