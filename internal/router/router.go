package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"medchat-backend/internal/handlers"
	"medchat-backend/internal/middleware"
	"medchat-backend/internal/websocket"
)

// New builds the HTTP surface. wsHub may be nil, in which case the event
// feed is not mounted.
func New(chatHandler *handlers.ChatHandler, wsHub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", handlers.Health)

	r.Post("/chat", chatHandler.Chat)

	// ──── Event feed ────
	if wsHub != nil {
		r.Get("/ws/events", wsHub.HandleWebSocket)
	}

	return r
}
