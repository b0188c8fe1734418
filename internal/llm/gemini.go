package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sidmandirwala/portafina/internal/config"
	"github.com/sidmandirwala/portafina/internal/domain"
)

// Gemini implements StreamClient over the official google.golang.org/genai
// SDK. The relay pins temperature and the output-token ceiling from
// configuration; both apply to every request.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGemini creates a Gemini-backed stream client.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Stream starts a streaming completion. Provider errors are delivered on
// the channel so the caller observes them at the point in the stream
// where they occur, including errors that only surface after the
// request is accepted.
func (g *Gemini) Stream(ctx context.Context, system string, messages []domain.Message) (<-chan Chunk, error) {
	contents := buildContents(messages)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	}
	if system != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
			Role:  "user",
		}
	}

	chunks := make(chan Chunk, 16)
	go func() {
		defer close(chunks)

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, genCfg) {
			if err != nil {
				chunks <- Chunk{Err: fmt.Errorf("gemini stream: %w", err)}
				return
			}
			text := candidateText(resp)
			if text == "" {
				continue
			}
			select {
			case chunks <- Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}

// buildContents converts normalized messages to the genai content shape.
// The assistant role maps to Gemini's "model"; everything else is "user".
func buildContents(messages []domain.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: msg.Content}},
			Role:  role,
		})
	}
	return contents
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	text := ""
	for _, part := range candidate.Content.Parts {
		if part.Thought {
			continue
		}
		text += part.Text
	}
	return text
}

// Ensure Gemini implements StreamClient.
var _ StreamClient = (*Gemini)(nil)
