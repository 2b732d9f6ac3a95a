package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/portfolio/internal/config"
	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/gateway"
	"github.com/terra-clan/portfolio/internal/models"
	"github.com/terra-clan/portfolio/internal/pages"
	"github.com/terra-clan/portfolio/internal/services"
)

const testAPIKey = "test-admin-key-123"

type fakeGateway struct {
	mu          sync.Mutex
	projects    []models.Project
	projectsErr error
	entries     []models.GuestbookEntry
	limits      []int
}

func (f *fakeGateway) FetchPublishedProjects(context.Context) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return append([]models.Project(nil), f.projects...), nil
}

func (f *fakeGateway) FetchRecentGuestbookEntries(_ context.Context, limit int) ([]models.GuestbookEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return append([]models.GuestbookEntry(nil), f.entries...), nil
}

func (f *fakeGateway) SubmitGuestbookEntry(_ context.Context, sub models.GuestbookSubmission) (models.GuestbookEntry, error) {
	entry := sub.Normalize()
	if entry.AuthorName == "" || entry.Message == "" {
		return models.GuestbookEntry{}, gateway.ErrValidation
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]models.GuestbookEntry{entry}, f.entries...)
	return entry, nil
}

type fakeDependency struct{ err error }

func (f fakeDependency) Type() string                      { return "fake" }
func (f fakeDependency) HealthCheck(context.Context) error { return f.err }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func newTestServer(t *testing.T, gw *fakeGateway) (*Server, *content.Store) {
	t.Helper()

	store := content.NewStore(content.DefaultSeed())
	projects := pages.NewProjectsController(gw)
	guestbook := pages.NewGuestbookController(gw, 20)

	srv := NewServer(
		config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		config.CORSConfig{AllowedOrigins: "*", MaxAge: 300},
		config.AuthConfig{AdminAPIKey: testAPIKey},
		Deps{
			Store:     store,
			Home:      pages.NewHomeController(content.NewDeriver(store), projects, guestbook),
			About:     pages.NewAboutController(content.NewDeriver(store)),
			Projects:  projects,
			Guestbook: guestbook,
		},
	)
	return srv, store
}

func doRequest(t *testing.T, srv *Server, method, path, body string, admin bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAPIKey)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGateway{})

	rec, env := doRequest(t, srv, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestReady(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGateway{})

	rec, _ := doRequest(t, srv, http.MethodGet, "/ready", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.registry.Register("postgres", fakeDependency{err: errors.New("down")})
	rec, env := doRequest(t, srv, http.MethodGet, "/ready", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_ready", env.Error.Code)
	assert.Contains(t, string(env.Data), "postgres")

	srv.registry.Register("cache", fakeDependency{err: errors.New("refused")})
	_, env = doRequest(t, srv, http.MethodGet, "/ready", "", false)
	var report struct {
		Failed []string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, []string{"cache", "postgres"}, report.Failed)
}

func TestPages(t *testing.T) {
	gw := &fakeGateway{projects: []models.Project{
		{ID: uuid.New(), Title: "A"}, {ID: uuid.New(), Title: "B"}, {ID: uuid.New(), Title: "C"},
		{ID: uuid.New(), Title: "D"}, {ID: uuid.New(), Title: "E"},
	}}
	srv, _ := newTestServer(t, gw)

	t.Run("home", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/pages/home", "", false)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pages.HomePage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page.Projects, pages.FeaturedProjects)
		assert.Len(t, page.Skills, content.TopSkillsCount)
		assert.NotEmpty(t, page.Hero.Name)
	})

	t.Run("about", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/pages/about", "", false)
		require.Equal(t, http.StatusOK, rec.Code)

		var page pages.AboutPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page.Sections, 3)
		assert.Equal(t, []string{"Design", "Frontend"}, page.SkillGroups.Categories)
	})

	t.Run("projects keeps stale list on error", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/pages/projects", "", false)
		require.Equal(t, http.StatusOK, rec.Code)
		var page pages.ProjectsPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page.Projects, 5)

		gw.mu.Lock()
		gw.projectsErr = errors.New("down")
		gw.mu.Unlock()

		_, env = doRequest(t, srv, http.MethodGet, "/api/v1/pages/projects", "", false)
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Len(t, page.Projects, 5)
		assert.Equal(t, pages.MsgProjectsUnavailable, page.Error)
	})
}

func TestGuestbook(t *testing.T) {
	gw := &fakeGateway{}
	srv, _ := newTestServer(t, gw)

	t.Run("sign", func(t *testing.T) {
		body := `{"author_name":"Ann","message":"hello","organization":"","email":"ann@example.com","is_email_public":false}`
		rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/guestbook", body, false)
		require.Equal(t, http.StatusCreated, rec.Code)

		var result pages.SubmitResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		require.NotNil(t, result.Entry)
		assert.Nil(t, result.Entry.Email)
		assert.Nil(t, result.Entry.Organization)
		require.Len(t, result.Entries, 1)
	})

	t.Run("invalid submission echoes the form", func(t *testing.T) {
		body := `{"author_name":"","message":"hello"}`
		rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/guestbook", body, false)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)

		var result pages.SubmitResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		require.NotNil(t, result.Form)
		assert.Equal(t, "hello", result.Form.Message)
		assert.Len(t, result.Entries, 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, _ := doRequest(t, srv, http.MethodPost, "/api/v1/guestbook", `{"author_name":`, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list with limit", func(t *testing.T) {
		rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/guestbook?limit=500", "", false)
		require.Equal(t, http.StatusOK, rec.Code)
		gw.mu.Lock()
		last := gw.limits[len(gw.limits)-1]
		gw.mu.Unlock()
		assert.Equal(t, maxGuestbookLimit, last)

		rec, _ = doRequest(t, srv, http.MethodGet, "/api/v1/guestbook?limit=abc", "", false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminAuth(t *testing.T) {
	srv, _ := newTestServer(t, &fakeGateway{})

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing key", want: http.StatusUnauthorized},
		{name: "wrong key", header: "Authorization", value: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer key", header: "Authorization", value: "Bearer " + testAPIKey, want: http.StatusOK},
		{name: "x-api-key", header: "X-API-Key", value: testAPIKey, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	store := content.NewStore(content.DefaultSeed())
	gw := &fakeGateway{}
	projects := pages.NewProjectsController(gw)
	guestbook := pages.NewGuestbookController(gw, 0)
	srv := NewServer(config.ServerConfig{}, config.CORSConfig{}, config.AuthConfig{}, Deps{
		Store:     store,
		Home:      pages.NewHomeController(content.NewDeriver(store), projects, guestbook),
		About:     pages.NewAboutController(content.NewDeriver(store)),
		Projects:  projects,
		Guestbook: guestbook,
		Registry:  services.NewRegistry(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/content", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminContentEditing(t *testing.T) {
	srv, store := newTestServer(t, &fakeGateway{})

	t.Run("update profile", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodPatch, "/api/v1/admin/profile", `{"major":"UX Design"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Profile
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.Equal(t, "UX Design", profile.Major)
		assert.Equal(t, content.DefaultSeed().BasicInfo.Name, profile.Name)
	})

	t.Run("update unknown section is 404 and leaves version", func(t *testing.T) {
		before := store.Version()
		rec, env := doRequest(t, srv, http.MethodPatch, "/api/v1/admin/sections/missing", `{"title":"x"}`, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "not_found", env.Error.Code)
		assert.Equal(t, before, store.Version())
	})

	t.Run("update section", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodPatch, "/api/v1/admin/sections/personal", `{"showInHome":true}`, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var sec models.Section
		require.NoError(t, json.Unmarshal(env.Data, &sec))
		assert.True(t, sec.ShowInHome)
	})

	var added models.Skill
	t.Run("add skill", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/admin/skills", `{"name":"Go","level":95,"category":"Backend","icon":"Terminal"}`, true)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(env.Data, &added))
		assert.Equal(t, int64(9), added.ID)
	})

	t.Run("add skill with level out of range", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/admin/skills", `{"name":"Go","level":120}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_error", env.Error.Code)
	})

	t.Run("update skill", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodPatch, "/api/v1/admin/skills/9", `{"level":50}`, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var sk models.Skill
		require.NoError(t, json.Unmarshal(env.Data, &sk))
		assert.Equal(t, 50, sk.Level)
		assert.Equal(t, "Go", sk.Name)
	})

	t.Run("update skill with bad id", func(t *testing.T) {
		rec, _ := doRequest(t, srv, http.MethodPatch, "/api/v1/admin/skills/abc", `{"level":50}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("remove skill", func(t *testing.T) {
		rec, _ := doRequest(t, srv, http.MethodDelete, "/api/v1/admin/skills/9", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = doRequest(t, srv, http.MethodDelete, "/api/v1/admin/skills/9", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("snapshot", func(t *testing.T) {
		rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/admin/content", "", true)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap models.ContentSnapshot
		require.NoError(t, json.Unmarshal(env.Data, &snap))
		assert.Equal(t, store.Version(), snap.Version)
		assert.Len(t, snap.Skills, 8)
	})
}

func TestLiveHomeFeed(t *testing.T) {
	srv, store := newTestServer(t, &fakeGateway{})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/home"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage := func() LiveMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg LiveMessage
		require.NoError(t, json.NewDecoder(bytes.NewReader(data)).Decode(&msg))
		return msg
	}

	initial := readMessage()
	assert.Equal(t, LiveTypeHome, initial.Type)
	require.NotNil(t, initial.Data)
	assert.Equal(t, store.Version(), initial.Version)

	require.Eventually(t, func() bool { return srv.Live().Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	store.AddSkill(models.NewSkill{Name: "Go", Level: 99, Category: "Backend", IconRef: "Terminal"})

	update := readMessage()
	assert.Equal(t, LiveTypeHome, update.Type)
	assert.Greater(t, update.Version, initial.Version)
	require.NotNil(t, update.Data)
	assert.Equal(t, "Go", update.Data.Skills[0].Name)

	srv.Live().NotifyRemoteChange("projects")
	changed := readMessage()
	assert.Equal(t, LiveTypeRemoteChanged, changed.Type)
	assert.Equal(t, "projects", changed.Table)
}

func TestLiveHub_SlowSubscriberGetsLatestVersion(t *testing.T) {
	srv, store := newTestServer(t, &fakeGateway{})
	hub := srv.Live()

	id, sub := hub.subscribe()
	defer hub.unsubscribe(id)

	for i := 0; i < 20; i++ {
		store.AddSkill(models.NewSkill{Name: fmt.Sprintf("skill-%d", i), Level: i, Category: "Backend"})
	}
	hub.NotifyRemoteChange("projects")
	hub.NotifyRemoteChange("projects")

	select {
	case <-sub.wake:
	default:
		t.Fatal("subscriber was not woken")
	}

	msgs := hub.pending(sub)
	require.Len(t, msgs, 2)
	assert.Equal(t, LiveTypeHome, msgs[0].Type)
	assert.Equal(t, store.Version(), msgs[0].Version)
	require.NotNil(t, msgs[0].Data)
	assert.Equal(t, LiveTypeRemoteChanged, msgs[1].Type)
	assert.Equal(t, "projects", msgs[1].Table)

	assert.Empty(t, hub.pending(sub))
}

func TestLiveMessage_VersionAlwaysEncoded(t *testing.T) {
	data, err := json.Marshal(LiveMessage{Type: LiveTypeHome, Data: &models.HomeViewModel{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":0`)
}
