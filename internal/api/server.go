package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/portfolio/internal/config"
	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/pages"
	"github.com/terra-clan/portfolio/internal/services"
)

// Deps are the components the HTTP layer serves
type Deps struct {
	Store     *content.Store
	Home      *pages.HomeController
	About     *pages.AboutController
	Projects  *pages.ProjectsController
	Guestbook *pages.GuestbookController
	Registry  *services.Registry
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	cors           config.CORSConfig
	router         *chi.Mux
	store          *content.Store
	home           *pages.HomeController
	about          *pages.AboutController
	projects       *pages.ProjectsController
	guestbook      *pages.GuestbookController
	registry       *services.Registry
	live           *LiveHub
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server and subscribes its live feed to the
// content store
func NewServer(cfg config.ServerConfig, corsCfg config.CORSConfig, auth config.AuthConfig, deps Deps) *Server {
	registry := deps.Registry
	if registry == nil {
		registry = services.NewRegistry()
	}

	s := &Server{
		config:         cfg,
		cors:           corsCfg,
		store:          deps.Store,
		home:           deps.Home,
		about:          deps.About,
		projects:       deps.Projects,
		guestbook:      deps.Guestbook,
		registry:       registry,
		live:           NewLiveHub(deps.Home),
		authMiddleware: NewAuthMiddleware(auth.AdminAPIKey),
	}
	deps.Store.Subscribe(s.live.Notify)
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// Live returns the websocket hub
func (s *Server) Live() *LiveHub {
	return s.live
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cors.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           s.cors.MaxAge,
	}))

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Live home view model; long-lived, so no request timeout
	r.Get("/ws/home", s.handleHomeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Pages (public)
		r.Route("/pages", func(r chi.Router) {
			r.Get("/home", s.handleHomePage)
			r.Get("/about", s.handleAboutPage)
			r.Get("/projects", s.handleProjectsPage)
		})

		// Guestbook (public)
		r.Get("/guestbook", s.handleListGuestbook)
		r.Post("/guestbook", s.handleSignGuestbook)

		// Content editing (protected by API key)
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware.Authenticate)

			r.Get("/content", s.handleGetContent)
			r.Patch("/profile", s.handleUpdateProfile)
			r.Patch("/sections/{id}", s.handleUpdateSection)

			r.Route("/skills", func(r chi.Router) {
				r.Post("/", s.handleAddSkill)
				r.Patch("/{id}", s.handleUpdateSkill)
				r.Delete("/{id}", s.handleRemoveSkill)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
