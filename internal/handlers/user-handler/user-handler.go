package user_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/daniel-training/chat-backend/internal/dtos/user_dto"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/internal/handlers"
	"github.com/daniel-training/chat-backend/internal/middleware"
	user_service "github.com/daniel-training/chat-backend/internal/use-case/user-case"
	"github.com/daniel-training/chat-backend/state"
)

type UserHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(state *state.AppState) *UserHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("nickval", user_dto.NicknameValidator)
	return &UserHandler{
		State:    state,
		Validate: validate,
		Service:  user_service.NewUserService(state),
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.CreateUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("user registered successfully", *resp, requestID(r)))
	return nil
}

func (h *UserHandler) LoginUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("login successful", *resp, requestID(r)))
	return nil
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userUUID := chi.URLParam(r, "userUUID")

	resp, err := h.Service.GetUser(r.Context(), userUUID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("user fetched", *resp, requestID(r)))
	return nil
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	resp, err := h.Service.ListUsers(r.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("users fetched", resp, requestID(r)))
	return nil
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userUUID := chi.URLParam(r, "userUUID")

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing credentials", "auth")
	}
	if claims.Sub != userUUID && claims.Role != "ADMIN" && claims.Role != "SYSTEM" {
		return app_error.NewAppError(http.StatusForbidden, "cannot update another account", "role")
	}

	var req user_dto.UpdateUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.UpdateUser(r.Context(), userUUID, req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("user updated", *resp, requestID(r)))
	return nil
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userUUID := chi.URLParam(r, "userUUID")

	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "missing credentials", "auth")
	}
	if claims.Sub != userUUID && claims.Role != "ADMIN" && claims.Role != "SYSTEM" {
		return app_error.NewAppError(http.StatusForbidden, "cannot delete another account", "role")
	}

	if err := h.Service.DeleteUser(r.Context(), userUUID); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("user deleted", map[string]any{"uuid": userUUID}, requestID(r)))
	return nil
}

func requestID(r *http.Request) string {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		return "unknown"
	}
	return reqID
}
