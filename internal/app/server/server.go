package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hradmin/internal/domain/auth"
	"hradmin/internal/domain/directory"
	"hradmin/internal/domain/offboarding"
	"hradmin/internal/platform/config"
	"hradmin/internal/platform/db"
	"hradmin/internal/platform/email"
	"hradmin/internal/platform/metrics"
	"hradmin/internal/platform/pdf"
	authhandler "hradmin/internal/transport/http/handlers/auth"
	directoryhandler "hradmin/internal/transport/http/handlers/directory"
	offboardinghandler "hradmin/internal/transport/http/handlers/offboarding"
	"hradmin/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, resolveMigrationsDir()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	directoryStore := directory.NewStore(pool)
	renderer := pdf.NewRenderer(cfg.PublicBaseURL)
	dispatcher := email.New(cfg)

	offboardingService := offboarding.NewService(offboarding.NewStore(pool), directoryStore, dispatcher, renderer)
	offboardingService.StrictTransitions = cfg.StrictTransitions
	offboardingService.DispatchTimeout = cfg.DispatchTimeout

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryStore).RegisterRoutes(r)
		offboardinghandler.NewHandler(offboardingService, directoryStore, renderer).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

// resolveMigrationsDir walks up from the working directory so the server can
// start from the repo root or from a package directory under test.
func resolveMigrationsDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "migrations"
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "migrations"
		}
		dir = parent
	}
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("hradmin server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
