package slackapi

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/jonny/slackgw/internal/metrics"
)

// Doer sends an HTTP request. *http.Client satisfies it, and every decorator
// in this package does too, so they can be stacked in any order.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenFunc returns the current bot token, or "" when none is configured.
type TokenFunc func() string

// StaticToken returns a TokenFunc that always yields token.
func StaticToken(token string) TokenFunc {
	return func() string { return token }
}

// ErrMissingCredential is matched by every *ConfigError.
var ErrMissingCredential = errors.New("missing slack credential")

// ConfigError reports a deployment defect detected before any network call.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration key %s", e.Key)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingCredential
}

// NewBaseTransport returns the innermost transport.
func NewBaseTransport(timeout time.Duration) Doer {
	return &http.Client{Timeout: timeout}
}

// AuthTransport injects the bot token as a bearer Authorization header.
type AuthTransport struct {
	next  Doer
	token TokenFunc
	key   string
}

// NewAuthTransport wraps next. The token is read on every call.
func NewAuthTransport(next Doer, token TokenFunc) *AuthTransport {
	return &AuthTransport{next: next, token: token, key: "slack.botToken"}
}

// Do fails with a *ConfigError, without calling next, when no token is set.
func (t *AuthTransport) Do(req *http.Request) (*http.Response, error) {
	var token string
	if t.token != nil {
		token = t.token()
	}
	if token == "" {
		return nil, &ConfigError{Key: t.key}
	}

	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.next.Do(authed)
}

// MetricsTransport records call counts and latency per Web API method.
type MetricsTransport struct {
	next    Doer
	metrics *metrics.Collector
}

func NewMetricsTransport(next Doer, m *metrics.Collector) *MetricsTransport {
	return &MetricsTransport{next: next, metrics: m}
}

func (t *MetricsTransport) Do(req *http.Request) (*http.Response, error) {
	endpoint := path.Base(req.URL.Path)
	start := time.Now()

	resp, err := t.next.Do(req)

	status := "0"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	t.metrics.SlackCallsTotal.WithLabelValues(endpoint, status).Inc()
	t.metrics.SlackCallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	return resp, err
}
