package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/slack-go/slack/slackevents"

	"github.com/jonny/slackgw/internal/domain/model"
	"github.com/jonny/slackgw/internal/domain/port/outbound"
	"github.com/jonny/slackgw/internal/metrics"
	"github.com/jonny/slackgw/pkg/apierror"
	"github.com/jonny/slackgw/pkg/result"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeError   = "error"
)

// Handler serves the Slack-facing endpoints. It keeps no per-request state.
type Handler struct {
	chat    outbound.ChatClient
	view    []byte
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewHandler creates a Handler that opens view for every slash command.
// metrics may be nil.
func NewHandler(chat outbound.ChatClient, view []byte, logger *slog.Logger, m *metrics.Collector) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		chat:    chat,
		view:    view,
		logger:  logger,
		metrics: m,
	}
}

// HandleCommand handles a form-encoded slash command or interaction:
// 1. Decodes the form into an ActionPayload.
// 2. Opens the modal for the payload's trigger id.
// 3. Acknowledges with the outcome.
//
// The response is always 200 with a CommandResponse; problems are reported in
// the text. A cancelled request is aborted without a body.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.acknowledge(w, "command", outcomeFailure, apierror.InvalidPayload("malformed form body").Details)
		return
	}

	payload, err := model.DecodeActionPayload(r.PostForm)
	if err == nil {
		err = payload.Validate()
	}
	if err != nil {
		res := result.FromError[outbound.ChatMessageResponse](err)
		h.logger.Warn("rejecting slash command", "error", res.Err().Error())
		h.acknowledge(w, "command", outcomeFailure, res.Err().Details)
		return
	}

	log := h.logger.With(
		"command", payload.Command,
		"team_id", payload.TeamID,
		"channel_id", payload.ChannelID,
		"user_id", payload.UserID,
	)

	res, err := h.chat.OpenView(ctx, payload.TriggerID, h.view)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("request cancelled while opening view", "error", err)
			panic(http.ErrAbortHandler)
		}
		log.Error("opening view failed", "error", err)
		h.acknowledge(w, "command", outcomeError, model.TextSomethingWentWrong)
		return
	}

	outcome := outcomeSuccess
	text := result.Match(res,
		func(outbound.ChatMessageResponse) string { return model.TextThankYou },
		func(e apierror.Error) string {
			outcome = outcomeFailure
			log.Warn("slack rejected views.open", "error", e.Error())
			return e.Details
		},
	)
	h.acknowledge(w, "command", outcome, text)
}

// HandleEvent acknowledges an Events API delivery. The body is read in full
// and the event type logged; nothing else is done, so redelivery of the same
// event is harmless.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("received event from slack")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if r.Context().Err() != nil {
			panic(http.ErrAbortHandler)
		}
		h.logger.Warn("reading event body", "error", err)
	}

	h.logEvent(body)

	h.acknowledge(w, "events", outcomeSuccess, model.TextThankYou)
}

// eventEnvelope is the outer shape of an Events API delivery.
type eventEnvelope struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

// logEvent records the event type at debug level. Bodies that do not parse
// are only noted; the acknowledgement never depends on them.
func (h *Handler) logEvent(body []byte) {
	if len(body) == 0 {
		return
	}

	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.Debug("event body not recognised", "error", err, "bytes", len(body))
		return
	}
	// slackevents.ParseEvent dereferences the inner event of a callback.
	if env.Type == slackevents.CallbackEvent && !isJSONObject(env.Event) {
		h.logger.Debug("event callback without inner event", "bytes", len(body))
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Warn("event body could not be parsed", "panic", rec, "bytes", len(body))
		}
	}()

	evt, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		h.logger.Debug("event body not recognised", "error", err, "bytes", len(body))
		return
	}
	h.logger.Debug("event received",
		"type", evt.Type,
		"inner_type", evt.InnerEvent.Type,
		"team_id", evt.TeamID,
		"bytes", len(body),
	)
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func (h *Handler) acknowledge(w http.ResponseWriter, endpoint, outcome, text string) {
	if h.metrics != nil {
		h.metrics.Acknowledgements.WithLabelValues(endpoint, outcome).Inc()
	}
	writeJSON(w, http.StatusOK, model.NewCommandResponse(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HealthHandler returns an http.HandlerFunc for the /health endpoint.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// methodNotAllowed answers verbs the route table does not bind.
func methodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apierror.WithCode("method_not_allowed", "method not allowed"))
	}
}
