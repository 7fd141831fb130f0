package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonny/slackgw/internal/adapter/outbound/notification/slack"
	"github.com/jonny/slackgw/internal/domain/port/outbound"
	"github.com/jonny/slackgw/internal/metrics"
	"github.com/jonny/slackgw/pkg/apierror"
	"github.com/jonny/slackgw/pkg/result"
)

// errRejected is returned when Slack answered ok:false. The failure itself
// has already been printed.
var errRejected = errors.New("slack rejected the request")

type messageOptions struct {
	payload  string
	channel  string
	ts       string
	threadTS string
	text     string
	level    string
}

var (
	postOpts   messageOptions
	updateOpts messageOptions
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a message with chat.postMessage",
	Long: `Post a message to Slack and print the response envelope.

Either pass a complete chat.postMessage body with --payload, or let slackgw
build one from --channel, --text and --level.

Examples:
  slackgw post --channel C0123 --text "deploy finished" --level resolved
  slackgw post --payload @message.json
  echo '{"channel":"C0123","text":"hi"}' | slackgw post --payload -`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMessage(cmd, postOpts, false)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Edit a message with chat.update",
	Long: `Replace the content of the message identified by --channel and --ts.

Examples:
  slackgw update --channel C0123 --ts 1700000000.000100 --text "edited"
  slackgw update --channel C0123 --ts 1700000000.000100 --payload @blocks.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMessage(cmd, updateOpts, true)
	},
}

func init() {
	for _, c := range []struct {
		cmd  *cobra.Command
		opts *messageOptions
	}{{postCmd, &postOpts}, {updateCmd, &updateOpts}} {
		f := c.cmd.Flags()
		f.StringVarP(&c.opts.payload, "payload", "p", "", "JSON body, @file, or - for stdin")
		f.StringVar(&c.opts.channel, "channel", "", "channel id")
		f.StringVarP(&c.opts.text, "text", "t", "", "message text (mrkdwn)")
		f.StringVar(&c.opts.level, "level", string(slack.LevelInfo), "info, warning, critical, or resolved")
	}
	postCmd.Flags().StringVar(&postOpts.threadTS, "thread-ts", "", "reply in the thread of this message")
	updateCmd.Flags().StringVar(&updateOpts.ts, "ts", "", "timestamp of the message to edit (required)")
	_ = updateCmd.MarkFlagRequired("channel")
	_ = updateCmd.MarkFlagRequired("ts")
}

func runMessage(cmd *cobra.Command, opts messageOptions, update bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chat := newChatClient(cfg, metrics.NewCollector())
	return sendMessage(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), chat, opts, update)
}

// sendMessage performs the call and prints the envelope to out, or the
// failure to errOut.
func sendMessage(ctx context.Context, in io.Reader, out, errOut io.Writer, chat outbound.ChatClient, opts messageOptions, update bool) error {
	var (
		res result.Result[outbound.ChatMessageResponse]
		err error
	)

	if opts.payload != "" {
		payload, rerr := readPayload(opts.payload, in)
		if rerr != nil {
			return rerr
		}
		if update {
			res, err = chat.UpdateMessage(ctx, payload, opts.channel, opts.ts)
		} else {
			res, err = chat.PostMessage(ctx, payload)
		}
	} else {
		notifier := slack.NewNotifier(chat, "")
		msg := slack.Message{Channel: opts.channel, Text: opts.text, ThreadTS: opts.threadTS, Level: slack.Level(opts.level)}
		if update {
			res, err = notifier.Update(ctx, opts.channel, opts.ts, msg)
		} else {
			res, err = notifier.Send(ctx, msg)
		}
	}
	if err != nil {
		return err
	}

	return result.Match(res,
		func(v outbound.ChatMessageResponse) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
		func(e apierror.Error) error {
			fmt.Fprintf(errOut, "slack: %s\n", e.Error())
			for _, sub := range e.Errors {
				fmt.Fprintf(errOut, "  - %s\n", sub.Details)
			}
			return errRejected
		},
	)
}

// readPayload resolves a --payload value: inline JSON, @path, or - for in.
func readPayload(arg string, in io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case arg == "-":
		data, err = io.ReadAll(in)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		data = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New("payload is not valid JSON")
	}
	return data, nil
}
