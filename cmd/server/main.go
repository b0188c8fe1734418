// Portafina - portfolio site server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sidmandirwala/portafina/internal/chat"
	"github.com/sidmandirwala/portafina/internal/config"
	"github.com/sidmandirwala/portafina/internal/leads"
	"github.com/sidmandirwala/portafina/internal/llm"
	"github.com/sidmandirwala/portafina/internal/middleware"
	"github.com/sidmandirwala/portafina/internal/ratelimit"
	"github.com/sidmandirwala/portafina/internal/store"
	"github.com/sidmandirwala/portafina/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	leadStore, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to initialize leads store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := leadStore.Close(); closeErr != nil {
			slog.Error("Failed to close leads store", "error", closeErr)
		}
	}()
	slog.Info("Leads store connected")

	limitStore, err := ratelimit.NewSQLiteStore(cfg.RateLimitDBPath)
	if err != nil {
		slog.Error("Failed to initialize rate-limit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := limitStore.Close(); closeErr != nil {
			slog.Error("Failed to close rate-limit store", "error", closeErr)
		}
	}()

	chatWindow := 24 * time.Hour
	chatLimiter := limitStore.Limiter("chat", cfg.Limits.ChatPerDay, chatWindow)
	leadsLimiter := limitStore.Limiter("leads", cfg.Limits.LeadsPerHour, time.Hour)
	ratelimit.StartPruneWorker(ctx, limitStore, chatWindow)

	model, err := llm.NewGemini(ctx, cfg.Gemini)
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}
	slog.Info("Model client ready", "model", cfg.Gemini.Model)

	// Initialize handlers.
	chatHandler := chat.NewHandler(model, chatLimiter)
	leadsHandler := leads.NewHandler(leadStore, leadsLimiter)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(corsOrigins(cfg)))

	chatHandler.RegisterRoutes(r)
	leadsHandler.RegisterRoutes(r)

	// Serve the embedded site shell (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Create server.
	// Note: streamed chat responses require no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
