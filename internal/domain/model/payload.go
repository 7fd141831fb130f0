package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonny/slackgw/pkg/apierror"
)

// ActionPayload is a decoded slash-command or interaction form submission.
// Every field is passed through untouched except TriggerID, which is needed
// to open a view.
type ActionPayload struct {
	TeamID      string `json:"team_id"`
	TeamDomain  string `json:"team_domain"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Command     string `json:"command"`
	Text        string `json:"text"`
	ResponseURL string `json:"response_url"`
	TriggerID   string `json:"trigger_id"`
	APIAppID    string `json:"api_app_id,omitempty"`
	Token       string `json:"token"`
}

// Validate reports a missing trigger id.
func (p ActionPayload) Validate() error {
	if strings.TrimSpace(p.TriggerID) == "" {
		return apierror.MissingTriggerID()
	}
	return nil
}

// DecodeActionPayload normalizes form values into an ActionPayload by
// percent-decoding each value, re-encoding the set as a JSON object and
// decoding that object. Repeated keys are joined with commas.
func DecodeActionPayload(form url.Values) (ActionPayload, error) {
	fields := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		fields[key] = unescape(strings.Join(values, ","))
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return ActionPayload{}, apierror.InvalidPayload(fmt.Sprintf("encoding form fields: %v", err))
	}

	var payload ActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ActionPayload{}, apierror.InvalidPayload(fmt.Sprintf("decoding action payload: %v", err))
	}
	return payload, nil
}

// unescape decodes every valid %XX sequence left in a value. Malformed
// sequences such as a lone "%" are kept as-is.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
