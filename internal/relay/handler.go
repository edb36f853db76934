// Package relay runs the per-connection exchange: record the user's turn,
// stream the model's reply back fragment by fragment, record the reply.
package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/soyeahso/voli/internal/hooks"
	"github.com/soyeahso/voli/internal/llm"
	"github.com/soyeahso/voli/internal/logging"
	"github.com/soyeahso/voli/internal/session"
)

// ErrorReply is the single frame sent to the client when a generation fails.
const ErrorReply = "Error: Could not get a response from the AI."

var errStreamEnded = errors.New("stream ended without completion")

// Sink receives outbound text frames for one connection.
type Sink interface {
	Send(text string) error
}

// Config holds the settings shared by every session.
type Config struct {
	Model   string
	Options llm.Options
}

// Result describes one handled message.
type Result struct {
	Reply        string
	Chunks       int
	FinishReason string
	Failed       bool
	Duration     time.Duration
}

// Handler relays user messages to the generation service.
// One Handler serves all connections; per-connection state lives in the
// session passed to Handle.
type Handler struct {
	cfg    Config
	client llm.Client
	hooks  *hooks.Manager
	log    *logging.Logger
}

// NewHandler creates a relay handler. hm may be nil.
func NewHandler(cfg Config, client llm.Client, hm *hooks.Manager, log *logging.Logger) *Handler {
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}
	return &Handler{
		cfg:    cfg,
		client: client,
		hooks:  hm,
		log:    log.Sub("relay"),
	}
}

// Model returns the model identifier sent with every call.
func (h *Handler) Model() string { return h.cfg.Model }

// Handle processes one inbound message for sess and writes the reply
// fragments to out. It returns once the generation has completed or failed;
// a failure is reported to the client as ErrorReply and never closes the
// channel. Hooks fire asynchronously.
func (h *Handler) Handle(ctx context.Context, sess *session.Session, text string, out Sink) Result {
	start := time.Now()
	log := h.log.With("sessionId", sess.ID)
	hookCtx := context.WithoutCancel(ctx)

	sess.AppendUser(text)
	log.Debug().Int("turns", sess.Len()).Int("bytes", len(text)).Msg("message received")
	h.hooks.EmitAsync(hookCtx, hooks.EventMessageReceived, map[string]any{
		"sessionId": sess.ID,
		"message":   text,
	})

	res, err := h.generate(ctx, sess.Turns(), out, log)
	res.Duration = time.Since(start)
	if err != nil {
		log.Error().Err(err).Int("chunks", res.Chunks).Msg("generation failed")
		h.send(out, ErrorReply, log)
		h.hooks.EmitAsync(hookCtx, hooks.EventGenerationFailed, map[string]any{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
		res.Reply = ""
		res.Failed = true
		return res
	}

	sess.AppendModel(res.Reply)
	log.Info().
		Int("chunks", res.Chunks).
		Int("turns", sess.Len()).
		Str("finishReason", res.FinishReason).
		Dur("duration", res.Duration).
		Msg("reply streamed")
	h.hooks.EmitAsync(hookCtx, hooks.EventReplySent, map[string]any{
		"sessionId": sess.ID,
		"reply":     res.Reply,
		"chunks":    res.Chunks,
	})

	return res
}

// generate streams one completion, forwarding each non-empty fragment as it
// arrives. The reply is exactly the concatenation of what was sent.
func (h *Handler) generate(ctx context.Context, contents []llm.Message, out Sink, log *logging.Logger) (Result, error) {
	var res Result
	events, err := h.client.Stream(ctx, llm.Request{
		Model:    h.cfg.Model,
		Options:  h.cfg.Options,
		Contents: contents,
	})
	if err != nil {
		return res, err
	}

	var reply strings.Builder
	for evt := range events {
		switch evt.Type {
		case llm.EventDelta:
			if evt.Content == "" {
				continue
			}
			res.Chunks++
			reply.WriteString(evt.Content)
			h.send(out, evt.Content, log)
		case llm.EventError:
			return res, &llm.ProviderError{Provider: h.client.Name(), Message: evt.Error}
		case llm.EventDone:
			if evt.Response != nil {
				res.FinishReason = evt.Response.FinishReason
			}
			res.Reply = reply.String()
			return res, nil
		}
	}
	return res, errStreamEnded
}

// send writes a frame; a closed channel is not an error worth surfacing.
func (h *Handler) send(out Sink, text string, log *logging.Logger) {
	if err := out.Send(text); err != nil {
		log.Debug().Err(err).Msg("dropping outbound frame")
	}
}
