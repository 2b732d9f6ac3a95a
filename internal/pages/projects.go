package pages

import (
	"context"
	"log/slog"

	"github.com/terra-clan/portfolio/internal/models"
)

// MsgProjectsUnavailable is shown when the projects list cannot be fetched
const MsgProjectsUnavailable = "failed to load projects"

// ProjectSource fetches published projects
type ProjectSource interface {
	FetchPublishedProjects(ctx context.Context) ([]models.Project, error)
}

// ProjectsPage is the payload of the projects page
type ProjectsPage struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
	Error    string           `json:"error,omitempty"`
}

// ProjectsController serves the projects listing
type ProjectsController struct {
	source ProjectSource
	state  ListState[models.Project]
}

// NewProjectsController creates a projects controller
func NewProjectsController(source ProjectSource) *ProjectsController {
	return &ProjectsController{source: source}
}

// Page fetches published projects. On failure the previously displayed list
// is returned together with an error message.
func (c *ProjectsController) Page(ctx context.Context) ProjectsPage {
	projects, err := c.source.FetchPublishedProjects(ctx)
	if err != nil {
		slog.Error("failed to fetch projects", "error", err)
		stale := c.state.Fail(MsgProjectsUnavailable)
		return ProjectsPage{Projects: stale, Total: len(stale), Error: MsgProjectsUnavailable}
	}

	shown := c.state.Succeed(projects)
	return ProjectsPage{Projects: shown, Total: len(shown)}
}

// Refresh re-fetches projects without building a page
func (c *ProjectsController) Refresh(ctx context.Context) error {
	projects, err := c.source.FetchPublishedProjects(ctx)
	if err != nil {
		c.state.Fail(MsgProjectsUnavailable)
		return err
	}
	c.state.Succeed(projects)
	return nil
}
