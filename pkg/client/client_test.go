package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/portfolio/internal/api"
	"github.com/terra-clan/portfolio/internal/config"
	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/gateway"
	"github.com/terra-clan/portfolio/internal/models"
	"github.com/terra-clan/portfolio/internal/pages"
)

const adminKey = "sdk-admin-key-0001"

type memoryGateway struct {
	mu       sync.Mutex
	projects []models.Project
	entries  []models.GuestbookEntry
}

func (m *memoryGateway) FetchPublishedProjects(context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Project(nil), m.projects...), nil
}

func (m *memoryGateway) FetchRecentGuestbookEntries(_ context.Context, limit int) ([]models.GuestbookEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) > limit {
		return append([]models.GuestbookEntry(nil), m.entries[:limit]...), nil
	}
	return append([]models.GuestbookEntry(nil), m.entries...), nil
}

func (m *memoryGateway) SubmitGuestbookEntry(_ context.Context, sub models.GuestbookSubmission) (models.GuestbookEntry, error) {
	entry := sub.Normalize()
	if entry.AuthorName == "" || entry.Message == "" {
		return models.GuestbookEntry{}, gateway.ErrValidation
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]models.GuestbookEntry{entry}, m.entries...)
	return entry, nil
}

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	gw := &memoryGateway{projects: []models.Project{{ID: uuid.New(), Title: "Brand refresh", IsPublished: true}}}
	store := content.NewStore(content.DefaultSeed())
	projects := pages.NewProjectsController(gw)
	guestbook := pages.NewGuestbookController(gw, 20)

	srv := api.NewServer(
		config.ServerConfig{},
		config.CORSConfig{AllowedOrigins: "*"},
		config.AuthConfig{AdminAPIKey: adminKey},
		api.Deps{
			Store:     store,
			Home:      pages.NewHomeController(content.NewDeriver(store), projects, guestbook),
			About:     pages.NewAboutController(content.NewDeriver(store)),
			Projects:  projects,
			Guestbook: guestbook,
		},
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_PublicPages(t *testing.T) {
	ts := newTestAPI(t)
	c := NewClient(ts.URL, WithTimeout(5*time.Second))
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	home, err := c.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home.Skills, content.TopSkillsCount)
	require.Len(t, home.Projects, 1)
	assert.Equal(t, "Brand refresh", home.Projects[0].Title)

	about, err := c.About(ctx)
	require.NoError(t, err)
	assert.Len(t, about.Skills, 8)

	projects, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, projects.Total)
}

func TestClient_Guestbook(t *testing.T) {
	ts := newTestAPI(t)
	c := NewClient(ts.URL)
	ctx := context.Background()

	result, err := c.SignGuestbook(ctx, SignGuestbookRequest{AuthorName: "Ann", Message: "hello"})
	require.NoError(t, err)
	require.NotNil(t, result.Entry)
	assert.Len(t, result.Entries, 1)

	_, err = c.SignGuestbook(ctx, SignGuestbookRequest{AuthorName: "Bob", Message: "again"})
	require.NoError(t, err)

	entries, err := c.Guestbook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bob", entries[0].AuthorName)

	result, err = c.SignGuestbook(ctx, SignGuestbookRequest{AuthorName: "Cy"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "validation_error", apiErr.Code)
	require.NotNil(t, result)
	require.NotNil(t, result.Form)
	assert.Equal(t, "Cy", result.Form.AuthorName)
}

func TestClient_Admin(t *testing.T) {
	ts := newTestAPI(t)
	ctx := context.Background()

	_, err := NewClient(ts.URL).Content(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	c := NewClient(ts.URL, WithAPIKey(adminKey))

	name := "Hyunji"
	profile, err := c.UpdateProfile(ctx, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Hyunji", profile.Name)

	show := false
	sec, err := c.UpdateSection(ctx, "philosophy", UpdateSectionRequest{ShowInHome: &show})
	require.NoError(t, err)
	assert.False(t, sec.ShowInHome)

	skill, err := c.AddSkill(ctx, AddSkillRequest{Name: "Go", Level: 70, Category: "Backend", IconRef: "Server"})
	require.NoError(t, err)

	level := 80
	updated, err := c.UpdateSkill(ctx, skill.ID, UpdateSkillRequest{Level: &level})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Level)

	require.NoError(t, c.RemoveSkill(ctx, skill.ID))
	err = c.RemoveSkill(ctx, skill.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	snap, err := c.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hyunji", snap.BasicInfo.Name)
	assert.Len(t, snap.Skills, 8)
}
