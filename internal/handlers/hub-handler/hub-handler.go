package hub_handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/internal/handlers"
	"github.com/daniel-training/chat-backend/internal/middleware"
)

// HubHandler exposes operational views over the live messaging core.
type HubHandler struct {
	Registry *chat.Registry
	Rooms    *chat.Rooms
	Subs     *chat.Table
}

func NewHubHandler(reg *chat.Registry, rooms *chat.Rooms, subs *chat.Table) *HubHandler {
	return &HubHandler{
		Registry: reg,
		Rooms:    rooms,
		Subs:     subs,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "chat-backend",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	rooms := h.Rooms.List()
	kinds := map[string]int{}
	for _, room := range rooms {
		kinds[string(room.Kind)]++
	}

	stats := map[string]any{
		"connections":    h.Registry.Size(),
		"rooms":          len(rooms),
		"occupied_rooms": h.Subs.RoomCount(),
		"room_kinds":     kinds,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get chat stats", stats, requestID(r)))
	return nil
}

func (h *HubHandler) HandleGetRoomStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	title := chi.URLParam(r, "title")

	room, ok := h.Rooms.Get(title)
	if !ok {
		return app_error.NewAppError(http.StatusNotFound, "room not found", "title")
	}

	stats := map[string]any{
		"title":       room.Title,
		"kind":        string(room.Kind),
		"subscribers": h.Subs.Count(room.ID),
		"last_active": h.Rooms.LastActive(room.ID),
		"ephemeral":   room.Kind == entity.RoomEphemeral,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get room stats", stats, requestID(r)))
	return nil
}

func requestID(r *http.Request) string {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		return "unknown"
	}
	return reqID
}
