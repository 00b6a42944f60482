package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aitoolshub/apiserver/config"
	"github.com/aitoolshub/apiserver/internal/db"
	"github.com/aitoolshub/apiserver/internal/handlers"
	appmiddleware "github.com/aitoolshub/apiserver/internal/middleware"
	"github.com/aitoolshub/apiserver/internal/mq"
	"github.com/aitoolshub/apiserver/internal/services"
	"github.com/aitoolshub/apiserver/internal/storage"
	"github.com/aitoolshub/apiserver/internal/store"
)

// Server wraps the HTTP server and its owned resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *mq.Publisher
	logger     *slog.Logger
}

// New constructs a Server with all dependencies wired in. The sample
// catalog is seeded when the store is empty.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := newLogger(cfg.LogLevel)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	toolRepo := store.NewToolRepository(dbConn)
	userRepo := store.NewUserRepository(dbConn)
	reviewRepo := store.NewReviewRepository(dbConn)

	publisher, err := newPublisher(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	imageStore, err := newImageStore(ctx, cfg.Images)
	if err != nil {
		_ = dbConn.Close()
		closePublisher(publisher)
		return nil, err
	}

	catalogService := services.NewCatalogService(toolRepo, logger)
	userService := services.NewUserService(userRepo)
	seedService := services.NewSeedService(toolRepo, logger)

	var events services.ReviewEventPublisher
	if publisher != nil {
		events = publisher
	}
	reviewService := services.NewReviewService(toolRepo, reviewRepo, events, logger)

	if _, err := seedService.SeedIfEmpty(ctx); err != nil {
		_ = dbConn.Close()
		closePublisher(publisher)
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		closePublisher(publisher)
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		appmiddleware.PrometheusMetrics,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
		handlers.ToolRouter(r, catalogService, imageStore, authMiddleware)
		handlers.ReviewRouter(r, reviewService, authMiddleware)
		handlers.SeedRouter(r, seedService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	closePublisher(s.publisher)
	return s.httpServer.Close()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

func newPublisher(ctx context.Context, cfg config.EventsConfig) (*mq.Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return mq.NewPublisher(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return mq.NewPublisher(backend), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

func newImageStore(ctx context.Context, cfg config.ImagesConfig) (*storage.ImageStore, error) {
	var backend storage.ObjectStorage
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown images driver %q", cfg.Driver)
	}

	imageStore := storage.NewImageStore(backend)
	if err := imageStore.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	return imageStore, nil
}

func closePublisher(publisher *mq.Publisher) {
	if publisher != nil {
		_ = publisher.Close()
	}
}
