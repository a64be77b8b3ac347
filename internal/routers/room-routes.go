package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/handlers"
	room_handler "github.com/daniel-training/chat-backend/internal/handlers/room-handler"
	"github.com/daniel-training/chat-backend/internal/middleware"
	"github.com/daniel-training/chat-backend/state"
)

func RoomRouter(r chi.Router, st *state.AppState, rooms *chat.Rooms, subs *chat.Table) {
	roomHandler := room_handler.NewRoomHandler(st, rooms, subs)

	r.Get("/api/v1/rooms", handlers.WrapHandler(roomHandler.ListRooms))
	r.Get("/api/v1/rooms/{title}", handlers.WrapHandler(roomHandler.GetRoom))
	r.Get("/api/v1/rooms/{title}/history", handlers.WrapHandler(roomHandler.GetHistory))

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(st.JwtSecret.Public))
		r.Post("/api/v1/rooms", handlers.WrapHandler(roomHandler.CreateRoom))
		r.Put("/api/v1/rooms/{title}", handlers.WrapHandler(roomHandler.UpdateRoom))
		r.Delete("/api/v1/rooms/{title}", handlers.WrapHandler(roomHandler.DeleteRoom))
	})
}
