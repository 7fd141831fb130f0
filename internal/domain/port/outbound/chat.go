package outbound

import (
	"context"
	"encoding/json"

	"github.com/jonny/slackgw/pkg/result"
)

// ChatMessageResponse is the envelope Slack wraps every Web API reply in.
// When Ok is false, Error and Errors carry the reason; otherwise Channel,
// Timestamp and Message are set.
type ChatMessageResponse struct {
	Ok        bool            `json:"ok"`
	Channel   string          `json:"channel"`
	Timestamp string          `json:"ts"`
	Message   json.RawMessage `json:"message,omitempty"`
	Error     string          `json:"error"`
	Errors    []string        `json:"errors"`
}

// MarshalJSON emits Errors as an empty array rather than null.
func (r ChatMessageResponse) MarshalJSON() ([]byte, error) {
	type alias ChatMessageResponse
	a := alias(r)
	if a.Errors == nil {
		a.Errors = []string{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON leaves Errors as an empty, non-nil slice when absent.
func (r *ChatMessageResponse) UnmarshalJSON(data []byte) error {
	type alias ChatMessageResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Errors == nil {
		a.Errors = []string{}
	}
	*r = ChatMessageResponse(a)
	return nil
}

// ChatClient issues calls to the Slack Web API. The error return reports
// transport, configuration and cancellation failures; the Result reports
// whether Slack accepted the call.
type ChatClient interface {
	PostMessage(ctx context.Context, payload []byte) (result.Result[ChatMessageResponse], error)
	UpdateMessage(ctx context.Context, payload []byte, channel, ts string) (result.Result[ChatMessageResponse], error)
	OpenView(ctx context.Context, triggerID string, view []byte) (result.Result[ChatMessageResponse], error)
}
