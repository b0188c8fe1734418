// Package chat implements the chat relay: it forwards a visitor's
// conversation to the hosted model and streams the answer back.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sidmandirwala/portafina/internal/api"
	"github.com/sidmandirwala/portafina/internal/domain"
	"github.com/sidmandirwala/portafina/internal/llm"
	"github.com/sidmandirwala/portafina/internal/ratelimit"
)

// FallbackMessage is returned, with success status, whenever the model
// call fails. The chat UI renders it as a normal assistant reply; this
// endpoint never surfaces a 5xx.
const FallbackMessage = "The assistant is taking a break right now! Feel free to browse the portfolio or reach out to Siddh directly at sidmandirwala9@gmail.com."

// LimitMessage is the plain-text body of a 429 response.
const LimitMessage = "You've reached your daily question limit. Please try again tomorrow."

// Handler serves POST /api/chat and GET /ws/chat.
type Handler struct {
	client  llm.StreamClient
	limiter ratelimit.Limiter
}

// NewHandler creates a chat relay handler.
func NewHandler(client llm.StreamClient, limiter ratelimit.Limiter) *Handler {
	return &Handler{client: client, limiter: limiter}
}

// RegisterRoutes registers the chat endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Relay)
	r.Get("/ws/chat", h.RelayWS)
}

// relayRequest is the wire shape of a conversation. Each message carries
// either a plain content string or a list of typed parts.
type relayRequest struct {
	Messages []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string     `json:"role"`
	Content *string    `json:"content"`
	Parts   []wirePart `json:"parts"`
}

type wirePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// normalize reduces wire messages to {role, content}, preferring the
// content field and otherwise concatenating the text parts.
func normalize(messages []wireMessage) []domain.Message {
	out := make([]domain.Message, 0, len(messages))
	for _, msg := range messages {
		content := ""
		if msg.Content != nil {
			content = *msg.Content
		} else {
			var b strings.Builder
			for _, p := range msg.Parts {
				if p.Type == "text" && p.Text != "" {
					b.WriteString(p.Text)
				}
			}
			content = b.String()
		}
		out = append(out, domain.Message{Role: msg.Role, Content: content})
	}
	return out
}

// dispatch opens a model stream and probes its first chunk before
// committing to a response. Failures that only manifest once the stream
// starts (upstream auth or quota errors) are caught here, before any
// bytes reach the client. The whole dispatch is retried once.
func (h *Handler) dispatch(ctx context.Context, messages []domain.Message) (string, <-chan llm.Chunk, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		chunks, err := h.client.Stream(ctx, systemPrompt, messages)
		if err != nil {
			lastErr = err
			continue
		}

		first, ok := <-chunks
		if !ok {
			// Stream closed cleanly before producing output: an empty
			// but successful answer.
			return "", chunks, nil
		}
		if first.Err != nil {
			lastErr = first.Err
			continue
		}
		return first.Text, chunks, nil
	}
	return "", nil, lastErr
}

// Relay handles POST /api/chat: admission, dispatch, probe, stream.
func (h *Handler) Relay(w http.ResponseWriter, r *http.Request) {
	ip := api.ClientIP(r)

	res, err := h.limiter.Limit(r.Context(), ip)
	if err != nil {
		// The limiter store is an upstream like any other: mask the
		// failure as a normal-looking reply rather than a 5xx.
		slog.Error("Chat rate limiter unavailable", "error", err)
		h.fallback(w)
		return
	}
	if !res.Allowed {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusTooManyRequests)
		if _, err := w.Write([]byte(LimitMessage)); err != nil {
			slog.Debug("Failed to write limit message", "error", err)
		}
		return
	}

	var req relayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fallback(w)
		return
	}

	first, rest, err := h.dispatch(r.Context(), normalize(req.Messages))
	if err != nil {
		slog.Warn("Chat dispatch failed", "ip", ip, "error", err)
		h.fallback(w)
		return
	}

	// Probe succeeded: commit to a streamed response and reattach the
	// first chunk ahead of the remainder.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	writeChunk := func(text string) bool {
		if text == "" {
			return true
		}
		if _, err := w.Write([]byte(text)); err != nil {
			slog.Debug("Client went away mid-stream", "ip", ip, "error", err)
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		return true
	}

	if !writeChunk(first) {
		return
	}
	for chunk := range rest {
		if chunk.Err != nil {
			// Mid-stream failure after bytes are committed: stop
			// pumping; the truncated reply stands.
			slog.Warn("Chat stream failed mid-flight", "ip", ip, "error", chunk.Err)
			return
		}
		if !writeChunk(chunk.Text) {
			return
		}
	}
}

// fallback writes the fixed fallback text with success status.
func (h *Handler) fallback(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(FallbackMessage)); err != nil {
		slog.Debug("Failed to write fallback message", "error", err)
	}
}
