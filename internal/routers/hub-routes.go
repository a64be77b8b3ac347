package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/handlers"
	hub_handler "github.com/daniel-training/chat-backend/internal/handlers/hub-handler"
	"github.com/daniel-training/chat-backend/internal/websocket"
)

func HubRouter(r chi.Router, reg *chat.Registry, rooms *chat.Rooms, subs *chat.Table, wsHandler *websocket.Handler) {
	hubHandler := hub_handler.NewHubHandler(reg, rooms, subs)

	r.Get("/api/v1/health", hubHandler.HandleHealth)
	r.Get("/api/v1/stats", handlers.WrapHandler(hubHandler.HandleGetStats))
	r.Get("/api/v1/rooms/{title}/stats", handlers.WrapHandler(hubHandler.HandleGetRoomStats))

	// websocket handshake endpoint
	r.Get("/chat-websocket-service", wsHandler.HandleWS)
}
