package llm

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/soyeahso/voli/internal/logging"
	"google.golang.org/genai"
)

// generateStreamFunc matches genai's Models.GenerateContentStream.
type generateStreamFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]

// GeminiClient streams completions from the Gemini API through the genai SDK.
type GeminiClient struct {
	generate generateStreamFunc
	log      *logging.Logger
}

// ErrMissingAPIKey is returned when no Gemini credential is configured.
var ErrMissingAPIKey = errors.New("gemini: missing API key")

// NewGeminiClient creates a client for the Gemini developer API.
func NewGeminiClient(ctx context.Context, apiKey string, log *logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Message: "creating client", Err: err}
	}
	return newGeminiClient(sdk.Models.GenerateContentStream, log), nil
}

func newGeminiClient(generate generateStreamFunc, log *logging.Logger) *GeminiClient {
	return &GeminiClient{generate: generate, log: log.Sub("llm.gemini")}
}

// Name returns the provider name.
func (g *GeminiClient) Name() string { return "gemini" }

// Stream starts a streamed generation. Fragments are delivered in arrival
// order; chunks carrying no text are skipped.
func (g *GeminiClient) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	contents := toContents(req.Contents)
	cfg := buildConfig(req.Options)

	events := make(chan StreamEvent)
	go g.stream(ctx, events, req.Model, contents, cfg)
	return events, nil
}

func (g *GeminiClient) stream(ctx context.Context, events chan<- StreamEvent, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) {
	defer close(events)

	start := time.Now()
	send := func(evt StreamEvent) bool {
		select {
		case events <- evt:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var (
		full         strings.Builder
		chunks       int
		finishReason string
	)
	for resp, err := range g.generate(ctx, model, contents, cfg) {
		if err != nil {
			g.log.Debug().Err(err).Str("model", model).Int("chunks", chunks).Msg("stream failed")
			send(StreamEvent{Type: EventError, Error: err.Error()})
			return
		}
		text, reason := chunkText(resp)
		if reason != "" {
			finishReason = reason
		}
		if text == "" {
			continue
		}
		chunks++
		full.WriteString(text)
		if !send(StreamEvent{Type: EventDelta, Content: text}) {
			return
		}
	}

	g.log.Debug().
		Str("model", model).
		Int("chunks", chunks).
		Dur("duration", time.Since(start)).
		Msg("stream finished")

	send(StreamEvent{
		Type: EventDone,
		Response: &Response{
			Content:      full.String(),
			Model:        model,
			FinishReason: finishReason,
			Chunks:       chunks,
		},
	})
}

// chunkText joins the non-thought text parts of the first candidate and
// returns its finish reason. GenerateContentResponse.Text does the join but
// drops the finish reason, so both are read here in one pass.
func chunkText(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", ""
	}
	cand := resp.Candidates[0]
	reason := string(cand.FinishReason)
	if cand.Content == nil {
		return "", reason
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String(), reason
}

func toContents(msgs []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		contents = append(contents, &genai.Content{
			Role:  string(m.Role),
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	return contents
}

func buildConfig(o Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:    ptr(float32(o.Temperature)),
		TopP:           ptr(float32(o.TopP)),
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: ptr(int32(o.ThinkingBudget))},
	}
	for _, name := range o.Tools {
		switch name {
		case ToolURLContext:
			cfg.Tools = append(cfg.Tools, &genai.Tool{URLContext: &genai.URLContext{}})
		case ToolGoogleSearch:
			cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
		}
	}
	if o.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: o.SystemInstruction}},
		}
	}
	return cfg
}

func ptr[T any](v T) *T { return &v }
