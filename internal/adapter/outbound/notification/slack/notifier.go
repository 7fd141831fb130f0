package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/slackgw/internal/domain/port/outbound"
	"github.com/jonny/slackgw/pkg/result"
)

// Level selects the emoji prefixed to a message.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelResolved Level = "resolved"
)

var (
	ErrNoChannel = errors.New("no channel given and no default channel configured")
	ErrEmptyText = errors.New("message text is empty")
)

// Message is a plain notification rendered as one mrkdwn section.
type Message struct {
	Channel  string
	Text     string
	ThreadTS string
	Level    Level
}

type messageBody struct {
	Channel  string           `json:"channel,omitempty"`
	Text     string           `json:"text"`
	ThreadTS string           `json:"thread_ts,omitempty"`
	Blocks   []slackapi.Block `json:"blocks"`
}

// Notifier sends Messages through a ChatClient.
type Notifier struct {
	chat           outbound.ChatClient
	defaultChannel string
}

// NewNotifier creates a Notifier. defaultChannel is used when a Message has
// no channel of its own.
func NewNotifier(chat outbound.ChatClient, defaultChannel string) *Notifier {
	return &Notifier{chat: chat, defaultChannel: defaultChannel}
}

// Send posts m as a new message, threaded when m.ThreadTS is set.
func (n *Notifier) Send(ctx context.Context, m Message) (result.Result[outbound.ChatMessageResponse], error) {
	channel := n.channelFor(m.Channel)
	if channel == "" {
		return result.Result[outbound.ChatMessageResponse]{}, ErrNoChannel
	}
	payload, err := buildPayload(channel, m.ThreadTS, m)
	if err != nil {
		return result.Result[outbound.ChatMessageResponse]{}, err
	}
	return n.chat.PostMessage(ctx, payload)
}

// Update replaces the message identified by channel and ts with m.
func (n *Notifier) Update(ctx context.Context, channel, ts string, m Message) (result.Result[outbound.ChatMessageResponse], error) {
	channel = n.channelFor(channel)
	if channel == "" {
		return result.Result[outbound.ChatMessageResponse]{}, ErrNoChannel
	}
	payload, err := buildPayload("", "", m)
	if err != nil {
		return result.Result[outbound.ChatMessageResponse]{}, err
	}
	return n.chat.UpdateMessage(ctx, payload, channel, ts)
}

func (n *Notifier) channelFor(channel string) string {
	if channel != "" {
		return channel
	}
	return n.defaultChannel
}

func buildPayload(channel, threadTS string, m Message) ([]byte, error) {
	if strings.TrimSpace(m.Text) == "" {
		return nil, ErrEmptyText
	}
	text := fmt.Sprintf("%s %s", levelEmoji(m.Level), m.Text)
	body := messageBody{
		Channel:  channel,
		Text:     text,
		ThreadTS: threadTS,
		Blocks: []slackapi.Block{
			slackapi.NewSectionBlock(slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false), nil, nil),
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return payload, nil
}

// levelEmoji maps a notification level to an emoji.
func levelEmoji(level Level) string {
	switch Level(strings.ToLower(string(level))) {
	case LevelCritical:
		return ":red_circle:"
	case LevelWarning:
		return ":large_yellow_circle:"
	case LevelResolved:
		return ":large_green_circle:"
	default:
		return ":information_source:"
	}
}
