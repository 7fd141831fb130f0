package slackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonny/slackgw/internal/domain/port/outbound"
	"github.com/jonny/slackgw/pkg/apierror"
	"github.com/jonny/slackgw/pkg/result"
)

const (
	DefaultBaseURL = "https://slack.com/api"
	DefaultTimeout = 3 * time.Second

	methodPostMessage = "chat.postMessage"
	methodUpdate      = "chat.update"
	methodOpenView    = "views.open"

	// maxErrorBody caps how much of a non-2xx body ends up in a TransportError.
	maxErrorBody = 512
	maxBody      = 1 << 20
)

// Config holds Slack Web API client configuration.
type Config struct {
	BaseURL string
	// Timeout bounds each call, on top of any deadline the caller sets.
	Timeout time.Duration
}

// TransportError reports a non-2xx HTTP status from the Web API.
type TransportError struct {
	Method     string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("slack %s: unexpected status %d: %s", e.Method, e.StatusCode, e.Body)
}

// Client implements outbound.ChatClient over any Doer chain.
type Client struct {
	config Config
	doer   Doer
}

var _ outbound.ChatClient = (*Client)(nil)

// NewClient creates a Client that sends every request through doer.
func NewClient(cfg Config, doer Doer) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{config: cfg, doer: doer}
}

// PostMessage sends a pre-serialized chat.postMessage body.
func (c *Client) PostMessage(ctx context.Context, payload []byte) (result.Result[outbound.ChatMessageResponse], error) {
	return c.call(ctx, methodPostMessage, payload)
}

// UpdateMessage sends a chat.update body. channel and ts are written into the
// body and take precedence over values already present in payload.
func (c *Client) UpdateMessage(ctx context.Context, payload []byte, channel, ts string) (result.Result[outbound.ChatMessageResponse], error) {
	body, err := withMessageIdentity(payload, channel, ts)
	if err != nil {
		return result.Result[outbound.ChatMessageResponse]{}, err
	}
	return c.call(ctx, methodUpdate, body)
}

// OpenView opens a modal for the interaction identified by triggerID. view is
// the serialized view definition and is sent as a JSON string.
func (c *Client) OpenView(ctx context.Context, triggerID string, view []byte) (result.Result[outbound.ChatMessageResponse], error) {
	if strings.TrimSpace(triggerID) == "" {
		return result.Failure[outbound.ChatMessageResponse](
			apierror.WithCode("invalid_trigger_id", "invalid_trigger_id")), nil
	}

	body, err := json.Marshal(map[string]string{
		"trigger_id": triggerID,
		"view":       string(view),
	})
	if err != nil {
		return result.Result[outbound.ChatMessageResponse]{}, fmt.Errorf("encoding views.open body: %w", err)
	}
	return c.call(ctx, methodOpenView, body)
}

// call posts body to method and classifies the reply. Only an "ok" envelope
// is a success; HTTP 200 alone is not, since Slack reports application
// errors with a 200.
func (c *Client) call(ctx context.Context, method string, body []byte) (result.Result[outbound.ChatMessageResponse], error) {
	var zero result.Result[outbound.ChatMessageResponse]

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return zero, fmt.Errorf("calling slack %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return zero, fmt.Errorf("reading slack %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), maxErrorBody),
		}
	}

	var envelope outbound.ChatMessageResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return zero, fmt.Errorf("decoding slack %s response: %w", method, err)
	}

	if envelope.Ok {
		return result.Success(envelope), nil
	}
	return result.Failure[outbound.ChatMessageResponse](envelopeError(envelope)), nil
}

// envelopeError maps an ok:false envelope to an apierror.Error.
func envelopeError(env outbound.ChatMessageResponse) apierror.Error {
	details := env.Error
	if details == "" && len(env.Errors) > 0 {
		details = env.Errors[0]
	}
	if details == "" {
		details = "unknown_error"
	}

	e := apierror.WithCode(env.Error, details)
	for _, sub := range env.Errors {
		e.Errors = append(e.Errors, apierror.New(sub))
	}
	return e
}

func withMessageIdentity(payload []byte, channel, ts string) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("chat.update payload must be a JSON object: %w", err)
		}
	}
	if channel != "" {
		fields["channel"] = mustQuote(channel)
	}
	if ts != "" {
		fields["ts"] = mustQuote(ts)
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding chat.update body: %w", err)
	}
	return body, nil
}

func mustQuote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
