package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jtylerm/PTExerciseApp/internal/api"
	"github.com/jtylerm/PTExerciseApp/internal/auth"
	"github.com/jtylerm/PTExerciseApp/internal/config"
	"github.com/jtylerm/PTExerciseApp/internal/domain"
	"github.com/jtylerm/PTExerciseApp/internal/events"
	"github.com/jtylerm/PTExerciseApp/internal/imagecatalog"
	"github.com/jtylerm/PTExerciseApp/internal/persistence"
	"github.com/jtylerm/PTExerciseApp/internal/persistence/postgres"
	httptransport "github.com/jtylerm/PTExerciseApp/internal/transport/http"
)

func main() {
	cfg := config.Load()

	repo, cleanup := buildRepository(cfg)
	defer cleanup()

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("change events enabled -> topic %s", cfg.EventsTopic)
	}

	service := domain.NewService(repo, publisher)

	source := imagecatalog.NewHTTPSource(cfg.ImageDatasetURL, cfg.HTTPTimeout)
	catalog := imagecatalog.New(source, cfg.ImageBaseURL)

	handler := api.NewHandler(service, catalog)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	root := http.Handler(mux)
	if cfg.JWTSecret != "" {
		middleware := auth.NewMiddleware(
			auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
			publicEndpoints,
		)
		root = middleware.Wrap(root)
		log.Printf("bearer-token auth enabled")
	}
	root = cors(cfg.CORSOrigin, requestLogger(root))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:         cfg.HTTPAddress,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    cfg.HTTPTimeout,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}, root)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("exercise catalog service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-stop
	if err := server.Shutdown(); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// publicEndpoints bypasses auth for probes, metrics, and the image lookup,
// which is a read-only enrichment surface that must never fail a page load.
func publicEndpoints(r *http.Request) bool {
	if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/exercise-image/")
}

func buildRepository(cfg config.Config) (domain.Repository, func()) {
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL not set, using in-memory repository")
		return persistence.NewInMemoryRepository(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}
	log.Printf("using Postgres repository")
	return postgres.NewRepository(pool), pool.Close
}

func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
