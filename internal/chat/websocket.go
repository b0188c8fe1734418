package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/sidmandirwala/portafina/internal/api"
)

// RelayWS serves the chat relay over a websocket: one conversation
// request per connection, answer chunks as text messages, then a normal
// close. Admission, dispatch, and failure masking are identical to the
// HTTP endpoint.
func (h *Handler) RelayWS(w http.ResponseWriter, r *http.Request) {
	ip := api.ClientIP(r)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", ip)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "done"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "ip", ip)
		}
	}()

	ctx := r.Context()

	_, data, err := ws.Read(ctx)
	if err != nil {
		slog.Debug("WebSocket read failed", "error", err, "ip", ip)
		return
	}

	res, err := h.limiter.Limit(ctx, ip)
	if err != nil {
		slog.Error("Chat rate limiter unavailable", "error", err)
		h.writeWS(ctx, ws, FallbackMessage, ip)
		return
	}
	if !res.Allowed {
		h.writeWS(ctx, ws, LimitMessage, ip)
		return
	}

	var req relayRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.writeWS(ctx, ws, FallbackMessage, ip)
		return
	}

	first, rest, err := h.dispatch(ctx, normalize(req.Messages))
	if err != nil {
		slog.Warn("Chat dispatch failed", "ip", ip, "error", err)
		h.writeWS(ctx, ws, FallbackMessage, ip)
		return
	}

	if first != "" && !h.writeWS(ctx, ws, first, ip) {
		return
	}
	for chunk := range rest {
		if chunk.Err != nil {
			slog.Warn("Chat stream failed mid-flight", "ip", ip, "error", chunk.Err)
			return
		}
		if chunk.Text != "" && !h.writeWS(ctx, ws, chunk.Text, ip) {
			return
		}
	}
}

func (h *Handler) writeWS(ctx context.Context, ws *websocket.Conn, text, ip string) bool {
	if err := ws.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
		slog.Debug("WebSocket write failed", "error", err, "ip", ip)
		return false
	}
	return true
}
