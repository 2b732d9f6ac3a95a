package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/models"
)

// FeaturedProjects is how many projects the home page previews
const FeaturedProjects = 4

// Hero is the top banner of the home page
type Hero struct {
	Name            string `json:"name"`
	Education       string `json:"education"`
	Major           string `json:"major"`
	ExperienceLabel string `json:"experience"`
	PhotoRef        string `json:"photo"`
}

// HomePage is the payload of the home page.
// Errors is keyed by section name and only set for sections whose remote
// fetch failed.
type HomePage struct {
	Version  uint64                  `json:"version"`
	Hero     Hero                    `json:"hero"`
	About    []models.HomeSection    `json:"about"`
	Skills   []models.SkillView      `json:"skills"`
	Projects []models.Project        `json:"projects"`
	Contact  []models.GuestbookEntry `json:"contact"`
	Errors   map[string]string       `json:"errors,omitempty"`
}

// HomeController assembles the home page from local content and remote lists
type HomeController struct {
	deriver   *content.Deriver
	projects  *ProjectsController
	guestbook *GuestbookController
}

// NewHomeController creates a home controller
func NewHomeController(deriver *content.Deriver, projects *ProjectsController, guestbook *GuestbookController) *HomeController {
	return &HomeController{
		deriver:   deriver,
		projects:  projects,
		guestbook: guestbook,
	}
}

// Page builds the home page. Projects and guestbook are fetched concurrently;
// a failure in either only sets that section's error message.
func (c *HomeController) Page(ctx context.Context) HomePage {
	var (
		projects  ProjectsPage
		guestbook GuestbookView
		g         errgroup.Group
	)

	g.Go(func() error {
		projects = c.projects.Page(ctx)
		return nil
	})
	g.Go(func() error {
		guestbook = c.guestbook.Recent(ctx)
		return nil
	})

	home, version := c.deriver.HomeWithVersion()
	_ = g.Wait()

	featured := projects.Projects
	if len(featured) > FeaturedProjects {
		featured = featured[:FeaturedProjects]
	}

	page := HomePage{
		Version:  version,
		Hero:     heroFrom(home.BasicInfo),
		About:    home.Content,
		Skills:   content.SkillViews(home.Skills),
		Projects: featured,
		Contact:  guestbook.Entries,
	}
	if projects.Error != "" || guestbook.Error != "" {
		page.Errors = make(map[string]string)
		if projects.Error != "" {
			page.Errors["projects"] = projects.Error
		}
		if guestbook.Error != "" {
			page.Errors["contact"] = guestbook.Error
		}
	}
	return page
}

// Live returns the locally derived part of the home page. It never blocks
// on remote data and is pushed to live subscribers after each edit.
func (c *HomeController) Live() (models.HomeViewModel, uint64) {
	return c.deriver.HomeWithVersion()
}

func heroFrom(p models.Profile) Hero {
	return Hero{
		Name:            p.Name,
		Education:       p.Education,
		Major:           p.Major,
		ExperienceLabel: p.ExperienceLabel,
		PhotoRef:        p.PhotoRef,
	}
}
