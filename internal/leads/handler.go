// Package leads implements the lead-capture endpoint: spam heuristics,
// field validation, and persistence to the remote store.
package leads

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sidmandirwala/portafina/internal/api"
	"github.com/sidmandirwala/portafina/internal/domain"
	"github.com/sidmandirwala/portafina/internal/ratelimit"
	"github.com/sidmandirwala/portafina/internal/store"
)

// minFillTime is the minimum page-load-to-submit delay. Faster
// submissions are treated as automated.
const minFillTime = 3 * time.Second

// Permissive personal-name shape: letters including extended Latin,
// apostrophe, hyphen, period, space; 2-100 chars.
var nameRe = regexp.MustCompile(`^[a-zA-ZÀ-ÖØ-öø-ÿ' \-.]{2,100}$`)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const maxEmailLen = 254

// Handler serves POST /api/leads.
type Handler struct {
	leads   store.Leads
	limiter ratelimit.Limiter
	now     func() time.Time
}

// NewHandler creates a lead-capture handler.
func NewHandler(leads store.Leads, limiter ratelimit.Limiter) *Handler {
	return &Handler{
		leads:   leads,
		limiter: limiter,
		now:     time.Now,
	}
}

// RegisterRoutes registers the leads endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/leads", h.Create)
}

// createRequest is the lead form payload. Website is the honeypot field;
// LoadedAt is the client's page-load timestamp in epoch milliseconds.
type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	LoadedAt *int64 `json:"loaded_at"`
}

// Create handles a lead form submission.
//
// Bot heuristics come first and fail silently: a tripped honeypot or a
// sub-3-second fill time gets a success response with no side effects,
// so automated clients never learn they were detected. Only genuine
// traffic counts against the per-IP limit.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Website != "" {
		slog.Info("Lead rejected by honeypot", "ip", api.ClientIP(r))
		api.JSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	if req.LoadedAt != nil {
		elapsed := h.now().Sub(time.UnixMilli(*req.LoadedAt))
		if elapsed < minFillTime {
			slog.Info("Lead rejected by time gate", "ip", api.ClientIP(r), "elapsed", elapsed)
			api.JSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}

	res, err := h.limiter.Limit(r.Context(), api.ClientIP(r))
	if err != nil {
		slog.Error("Leads rate limiter unavailable", "error", err)
		api.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if !res.Allowed {
		api.Error(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" || email == "" {
		api.Error(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	if !nameRe.MatchString(name) {
		api.Error(w, http.StatusBadRequest, "Please enter a valid name (at least 2 characters)")
		return
	}
	if len(email) > maxEmailLen || !emailRe.MatchString(email) {
		api.Error(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	lead := &domain.Lead{
		Name:  name,
		Email: strings.ToLower(email),
	}
	if err := h.leads.Insert(r.Context(), lead); err != nil {
		slog.Error("Failed to insert lead", "error", err)
		api.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	slog.Info("Lead captured", "ip", api.ClientIP(r))
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
