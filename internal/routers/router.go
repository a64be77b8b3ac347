package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/middleware"
	"github.com/daniel-training/chat-backend/internal/websocket"
	"github.com/daniel-training/chat-backend/state"
)

func NewRouter(st *state.AppState, reg *chat.Registry, rooms *chat.Rooms, subs *chat.Table, wsHandler *websocket.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	UserRouter(r, st)
	RoomRouter(r, st, rooms, subs)
	HubRouter(r, reg, rooms, subs, wsHandler)
	return r
}
