package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/jonny/slackgw/internal/adapter/inbound/webhook/middleware"
	"github.com/jonny/slackgw/internal/metrics"
	"github.com/jonny/slackgw/pkg/version"
)

const defaultPathPrefix = "/slack"

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// PathPrefix mounts the Slack routes. Defaults to /slack.
	PathPrefix string
	// SigningSecret enables request signature verification when set.
	SigningSecret string
	// Environment is reported by /info.
	Environment string
}

// Server wraps an HTTP server with graceful shutdown support.
type Server struct {
	cfg     ServerConfig
	handler *Handler
	logger  *slog.Logger
	metrics *metrics.Collector
	srv     *http.Server
}

// NewServer creates a Server for handler. logger defaults to slog.Default and
// m may be nil.
func NewServer(cfg ServerConfig, handler *Handler, logger *slog.Logger, m *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	cfg.PathPrefix = "/" + strings.Trim(cfg.PathPrefix, "/")
	if cfg.PathPrefix == "/" {
		cfg.PathPrefix = defaultPathPrefix
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		metrics: m,
	}
}

// SetupRoutes builds and returns an http.Handler with all middleware applied.
// Route layout (prefix /slack by default):
//
//	POST /slack/         - Slash command / interaction
//	POST /slack          - Same, without the trailing slash
//	POST /slack/events   - Events API acknowledgement
//	GET  /health         - Health check
//	GET  /info           - Build and host information
func (s *Server) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = methodNotAllowed()
	r.Use(middleware.RequestID, middleware.NewLoggingMiddleware(s.logger, s.metrics))

	r.HandleFunc("/health", HealthHandler()).Methods(http.MethodGet)
	r.HandleFunc("/info", version.Handler(s.cfg.Environment)).Methods(http.MethodGet)

	verify := middleware.SlackSignature(s.cfg.SigningSecret, s.logger)
	prefix := s.cfg.PathPrefix
	r.Handle(prefix+"/", verify(http.HandlerFunc(s.handler.HandleCommand))).Methods(http.MethodPost)
	r.Handle(prefix, verify(http.HandlerFunc(s.handler.HandleCommand))).Methods(http.MethodPost)
	r.Handle(prefix+"/events", verify(http.HandlerFunc(s.handler.HandleEvent))).Methods(http.MethodPost)

	// Outermost first: SecurityHeaders -> BodyReader -> router.
	var h http.Handler = r
	h = middleware.BodyReader(h)
	h = middleware.SecurityHeaders(h)

	return h
}

// Start starts the HTTP server and blocks until ctx is cancelled, then performs
// a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.SetupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening", "port", s.cfg.Port, "prefix", s.cfg.PathPrefix)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown error: %w", err)
		}
		s.logger.Info("webhook server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
