package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"shopassist-backend/internal/handlers"
	"shopassist-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	chatLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Liveness check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("GPT backend is live!"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Chat Route (rate limited) ────
	r.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Post("/chat", chatHandler.Complete)
	})

	return r
}
