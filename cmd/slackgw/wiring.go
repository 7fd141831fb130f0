package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonny/slackgw/internal/adapter/outbound/slackapi"
	"github.com/jonny/slackgw/internal/config"
	"github.com/jonny/slackgw/internal/metrics"
)

// loadConfig reads --config. The default path may be absent, in which case
// defaults and the environment are used.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if f := cmd.Flag("config"); f != nil && f.Changed {
		return config.Load(configPath)
	}
	return config.LoadOrDefault(configPath)
}

// newChatClient builds the outbound chain metrics -> auth -> net/http.
func newChatClient(cfg *config.Config, m *metrics.Collector) *slackapi.Client {
	var doer slackapi.Doer = slackapi.NewBaseTransport(cfg.Slack.RequestTimeout)
	doer = slackapi.NewAuthTransport(doer, slackapi.StaticToken(cfg.Slack.BotToken))
	doer = slackapi.NewMetricsTransport(doer, m)

	return slackapi.NewClient(slackapi.Config{
		BaseURL: cfg.Slack.BaseURL,
		Timeout: cfg.Slack.RequestTimeout,
	}, doer)
}

// buildLogger constructs a slog.Logger based on config.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
