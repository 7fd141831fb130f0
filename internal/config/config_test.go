package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Server defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server.port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("expected server.shutdownTimeout 15s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MetricsPort != 9090 {
		t.Errorf("expected server.metricsPort 9090, got %d", cfg.Server.MetricsPort)
	}

	// Slack defaults
	if cfg.Slack.BaseURL != "https://slack.com/api" {
		t.Errorf("expected slack.baseURL https://slack.com/api, got %q", cfg.Slack.BaseURL)
	}
	if cfg.Slack.RequestTimeout != 3*time.Second {
		t.Errorf("expected slack.requestTimeout 3s, got %v", cfg.Slack.RequestTimeout)
	}
	if cfg.Slack.PathPrefix != "/slack" {
		t.Errorf("expected slack.pathPrefix /slack, got %q", cfg.Slack.PathPrefix)
	}
	if cfg.Slack.BotToken != "" {
		t.Errorf("expected empty default bot token, got %q", cfg.Slack.BotToken)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("expected logging info/json, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad(t *testing.T) {
	yaml := `
environment: staging
server:
  port: 9000
  metricsPort: 9091
slack:
  baseURL: "http://localhost:4000/api"
  requestTimeout: 5s
  pathPrefix: /hooks/slack
logging:
  level: debug
  format: text
`
	f := writeTempYAML(t, yaml)

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment staging, got %q", cfg.Environment)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9091 {
		t.Errorf("expected metricsPort 9091, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Slack.BaseURL != "http://localhost:4000/api" {
		t.Errorf("expected slack baseURL override, got %q", cfg.Slack.BaseURL)
	}
	if cfg.Slack.RequestTimeout != 5*time.Second {
		t.Errorf("expected requestTimeout 5s, got %v", cfg.Slack.RequestTimeout)
	}
	if cfg.Slack.PathPrefix != "/hooks/slack" {
		t.Errorf("expected pathPrefix /hooks/slack, got %q", cfg.Slack.PathPrefix)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected logging.format text, got %q", cfg.Logging.Format)
	}
	// Verify defaults still apply to unset fields
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected default readTimeout 10s, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed sequence", "server: [unclosed"},
		{"type mismatch", "server: {port: abc}"},
		{"bare scalar", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := writeTempYAML(t, tt.content)
			_, err := Load(f)
			if err == nil {
				t.Fatal("expected error for invalid YAML, got nil")
			}
			if !strings.Contains(err.Error(), "parsing config file") {
				t.Errorf("expected a parse error, got: %v", err)
			}
		})
	}
}

func TestLoadOrDefault_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("SLACK_BOT_USER_OAUTH_TOKEN", "xoxb-from-env")
	t.Setenv("SLACK_SIGNING_SECRET", "shh")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-from-env" {
		t.Errorf("expected token from env, got %q", cfg.Slack.BotToken)
	}
	if cfg.Slack.SigningSecret != "shh" {
		t.Errorf("expected signing secret from env, got %q", cfg.Slack.SigningSecret)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadOrDefault_ExistingFileIsRead(t *testing.T) {
	f := writeTempYAML(t, "server:\n  port: 7000\n")

	cfg, err := LoadOrDefault(f)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_TOKEN", "secret-token-123")
	t.Setenv("TEST_PORT", "9999")

	input := "token: ${TEST_TOKEN}\nport: ${TEST_PORT}\nmissing: ${SLACKGW_TEST_MISSING_VAR}"
	result := expandEnvVars(input)

	if result != "token: secret-token-123\nport: 9999\nmissing: " {
		t.Errorf("unexpected expansion result:\n%s", result)
	}
}

func TestExpandEnvVars_UnsetTokenIsEmpty(t *testing.T) {
	t.Setenv("SLACK_BOT_USER_OAUTH_TOKEN", "")
	os.Unsetenv("SLACK_BOT_USER_OAUTH_TOKEN")

	f := writeTempYAML(t, "slack:\n  botToken: ${SLACK_BOT_USER_OAUTH_TOKEN}\n")
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("missing token must not fail validation: %v", err)
	}
	if cfg.Slack.BotToken != "" {
		t.Errorf("expected empty token, got %q", cfg.Slack.BotToken)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SLACKGW_TEST_FROM_FILE=file\nSLACKGW_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv("SLACKGW_TEST_FROM_FILE", "")
	os.Unsetenv("SLACKGW_TEST_FROM_FILE")
	t.Setenv("SLACKGW_TEST_PRESET", "process")

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadEnvFiles() error: %v", err)
	}

	if got := os.Getenv("SLACKGW_TEST_FROM_FILE"); got != "file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("SLACKGW_TEST_PRESET"); got != "process" {
		t.Errorf("existing variables must not be overridden, got %q", got)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("expected valid config to pass validation, got: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"metrics port clash", func(c *Config) { c.Server.MetricsPort = c.Server.Port }, "server.metricsPort must differ"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdownTimeout"},
		{"relative base url", func(c *Config) { c.Slack.BaseURL = "slack.com/api" }, "slack.baseURL"},
		{"request timeout", func(c *Config) { c.Slack.RequestTimeout = 0 }, "slack.requestTimeout"},
		{"path prefix template", func(c *Config) { c.Slack.PathPrefix = "/{team}" }, "slack.pathPrefix"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = -1
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("expected both errors reported, got: %v", err)
	}
}

// writeTempYAML writes content to a temp file and returns its path.
func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	f := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(f, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}
	return f
}
