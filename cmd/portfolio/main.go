package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/terra-clan/portfolio/internal/api"
	"github.com/terra-clan/portfolio/internal/config"
	"github.com/terra-clan/portfolio/internal/content"
	"github.com/terra-clan/portfolio/internal/gateway"
	"github.com/terra-clan/portfolio/internal/pages"
	"github.com/terra-clan/portfolio/internal/refresh"
	"github.com/terra-clan/portfolio/internal/services"
	"github.com/terra-clan/portfolio/internal/storage"
)

var (
	configPath string
	envFile    string
	logLevel   = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio website backend",
	Long: `portfolio serves the page payloads of a personal portfolio site: an
editable profile held in memory plus projects and guestbook entries stored
in PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup configures structured logging and loads the optional dotenv file
func setup() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if configPath != "" {
		os.Setenv("CONFIG_PATH", configPath)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logLevel.Set(level)
	return cfg, nil
}

func migrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(ctx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		return err
	}
	return nil
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("starting portfolio",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	if cfg.Database.AutoMigrate {
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			return err
		}
	}

	pool, err := storage.NewPool(initCtx, storage.PostgresConfig{
		DSN:            cfg.Database.DSN,
		MaxOpenConns:   cfg.Database.MaxConns,
		MaxIdleConns:   cfg.Database.MinConns,
		MaxLifetime:    cfg.Database.MaxLifetime,
		SimpleProtocol: cfg.Database.SimpleProtocol,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()
	slog.Info("database connected successfully")

	// Dependencies reported by /ready
	registry := services.NewRegistry()
	registry.Register("postgres", services.NewPostgresDependency(pool))

	gw := gateway.NewClient(pool)

	var (
		projectSource pages.ProjectSource = gw
		cache         *gateway.CachedProjects
		invalidator   refresh.Invalidator
		rdb           *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb, err = services.NewRedisClient(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			return err
		}
		defer rdb.Close()
		registry.Register("redis", services.NewRedisDependency(rdb))

		cache = gateway.NewCachedProjects(gw, rdb, cfg.Redis.ProjectsTTL)
		projectSource = cache
		invalidator = cache
		slog.Info("projects cache enabled", "ttl", cfg.Redis.ProjectsTTL)
	}

	// Local content
	seed, err := content.LoadSeed(cfg.Content.SeedPath)
	if err != nil {
		slog.Error("failed to load content seed", "path", cfg.Content.SeedPath, "error", err)
		return err
	}
	store := content.NewStore(seed)

	// Page controllers
	deriver := content.NewDeriver(store)
	projectsCtrl := pages.NewProjectsController(projectSource)
	guestbookCtrl := pages.NewGuestbookController(gw, cfg.Content.GuestbookLimit)
	homeCtrl := pages.NewHomeController(deriver, projectsCtrl, guestbookCtrl)

	server := api.NewServer(cfg.Server, cfg.CORS, cfg.Auth, api.Deps{
		Store:     store,
		Home:      homeCtrl,
		About:     pages.NewAboutController(deriver),
		Projects:  projectsCtrl,
		Guestbook: guestbookCtrl,
		Registry:  registry,
	})

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start projects refresher
	if cfg.Refresh.Interval > 0 {
		refresh.NewRefresher(projectsCtrl, invalidator, cfg.Refresh.Interval).Start(ctx)
	}

	// Forward table change notifications
	if cfg.Database.Listen {
		listener := gateway.NewListener(cfg.Database.DSN)
		listener.OnChange(func(ctx context.Context, table string) {
			switch {
			case gateway.IsProjects(table):
				if cache != nil {
					if err := cache.Invalidate(ctx); err != nil {
						slog.Warn("failed to invalidate projects cache", "error", err)
					}
				}
				if err := projectsCtrl.Refresh(ctx); err != nil {
					slog.Warn("failed to refresh projects after change", "error", err)
				}
			case gateway.IsGuestbook(table):
				guestbookCtrl.Recent(ctx)
			}
			server.Live().NotifyRemoteChange(table)
		})
		if err := listener.Start(ctx); err != nil {
			slog.Warn("change listener unavailable", "error", err)
		}
	}

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("portfolio stopped")
	return nil
}
