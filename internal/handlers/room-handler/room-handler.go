package room_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/dtos/room_dto"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/internal/handlers"
	"github.com/daniel-training/chat-backend/internal/middleware"
	room_service "github.com/daniel-training/chat-backend/internal/use-case/room-case"
	"github.com/daniel-training/chat-backend/state"
)

type RoomHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  room_service.RoomServiceContract
}

func NewRoomHandler(state *state.AppState, live *chat.Rooms, subs *chat.Table) *RoomHandler {
	return &RoomHandler{
		State:    state,
		Validate: validator.New(),
		Service:  room_service.NewRoomService(state, live, subs),
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req room_dto.CreateRoomRequest
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing credentials", "auth")
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.CreateRoom(r.Context(), req, claims.Sub)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("room created", *resp, requestID(r)))
	return nil
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	title := chi.URLParam(r, "title")

	resp, err := h.Service.GetRoom(r.Context(), title)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("room fetched", *resp, requestID(r)))
	return nil
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	resp, err := h.Service.ListRooms(r.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("rooms fetched", resp, requestID(r)))
	return nil
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	title := chi.URLParam(r, "title")

	var req room_dto.UpdateRoomRequest
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing credentials", "auth")
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateRoom(r.Context(), title, req, claims.Sub)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("room updated", *resp, requestID(r)))
	return nil
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	title := chi.URLParam(r, "title")

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing credentials", "auth")
	}

	if err := h.Service.DeleteRoom(r.Context(), title, claims.Sub); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("room deleted", map[string]any{"title": title}, requestID(r)))
	return nil
}

func (h *RoomHandler) GetHistory(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	title := chi.URLParam(r, "title")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return app_error.NewAppError(http.StatusBadRequest, "limit must be a number", "limit")
		}
		limit = parsed
	}

	var beforeID *string
	if raw := r.URL.Query().Get("before_id"); raw != "" {
		beforeID = &raw
	}

	resp, err := h.Service.History(r.Context(), title, limit, beforeID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("room history fetched", *resp, requestID(r)))
	return nil
}

func requestID(r *http.Request) string {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		return "unknown"
	}
	return reqID
}
