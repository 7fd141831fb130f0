package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonny/slackgw/internal/adapter/inbound/webhook"
	"github.com/jonny/slackgw/internal/adapter/inbound/webhook/view"
	"github.com/jonny/slackgw/internal/config"
	"github.com/jonny/slackgw/internal/metrics"
	"github.com/jonny/slackgw/pkg/health"
	"github.com/jonny/slackgw/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := buildLogger(cfg.Logging)
	if cfg.Slack.BotToken == "" {
		logger.Warn("slack.botToken is not configured; outbound calls will fail until it is set")
	}
	if cfg.Slack.SigningSecret == "" {
		logger.Warn("slack.signingSecret is not configured; inbound requests are not verified")
	}

	// --- Outbound ---
	m := metrics.NewCollector()
	chat := newChatClient(cfg, m)

	// --- Inbound ---
	handler := webhook.NewHandler(chat, view.GratitudeModal(), logger, m)
	webhookServer := webhook.NewServer(webhook.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		PathPrefix:      cfg.Slack.PathPrefix,
		SigningSecret:   cfg.Slack.SigningSecret,
		Environment:     cfg.Environment,
	}, handler, logger, m)

	// --- Health checks ---
	checker := newChecker(cfg)

	// --- Signal handling & startup ---
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return webhookServer.Start(gCtx)
	})

	if cfg.Server.MetricsPort != 0 {
		metricsServer := newMetricsServer(cfg.Server.MetricsPort, checker, m)
		g.Go(func() error {
			logger.Info("starting metrics server", "port", cfg.Server.MetricsPort)
			errCh := make(chan error, 1)
			go func() {
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()
			select {
			case <-gCtx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return metricsServer.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		})
	}

	logger.Info("slackgw started", "version", version.String(), "environment", cfg.Environment)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}

	logger.Info("slackgw stopped")
	return nil
}

// newChecker registers readiness checks. A missing token degrades readiness
// without failing it.
func newChecker(cfg *config.Config) *health.Checker {
	checker := health.NewChecker()
	checker.Register("config", func(context.Context) error {
		return config.Validate(cfg)
	})
	checker.RegisterOptional("slack_token", func(context.Context) error {
		if cfg.Slack.BotToken == "" {
			return errors.New("slack.botToken not configured")
		}
		return nil
	})
	return checker
}

func newMetricsServer(port int, checker *health.Checker, m *metrics.Collector) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", checker.LivenessHandler())
	mux.HandleFunc("/readyz", checker.ReadinessHandler())
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
