// Package httptransport wraps http.Server construction and lifecycle.
package httptransport

import (
	"context"
	"net/http"
	"time"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server wraps http.Server with a bounded graceful shutdown.
type Server struct {
	inner           *http.Server
	shutdownTimeout time.Duration
}

// NewServer instantiates a Server with timeouts applied.
func NewServer(cfg ServerConfig, handler http.Handler) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		inner: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// ListenAndServe starts serving. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) ListenAndServe() error {
	return s.inner.ListenAndServe()
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.inner.Shutdown(ctx)
}
