package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the config for errors. A missing bot token is not an
// error here; it surfaces on the first outbound call.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if cfg.Server.MetricsPort < 0 || cfg.Server.MetricsPort > 65535 {
		errs = append(errs, "server.metricsPort must be between 0 and 65535 (0 disables it)")
	}
	if cfg.Server.MetricsPort != 0 && cfg.Server.MetricsPort == cfg.Server.Port {
		errs = append(errs, "server.metricsPort must differ from server.port")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdownTimeout must be positive")
	}

	if u, err := url.Parse(cfg.Slack.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("slack.baseURL must be an absolute http(s) URL (got %q)", cfg.Slack.BaseURL))
	}
	if cfg.Slack.RequestTimeout <= 0 {
		errs = append(errs, "slack.requestTimeout must be positive")
	}
	if strings.ContainsAny(cfg.Slack.PathPrefix, "{}?#") {
		errs = append(errs, fmt.Sprintf("slack.pathPrefix must be a plain path (got %q)", cfg.Slack.PathPrefix))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		errs = append(errs, fmt.Sprintf("logging.format must be json or text (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
