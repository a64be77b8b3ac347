package user_service

import (
	"context"

	"github.com/daniel-training/chat-backend/internal/dtos/user_dto"
	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginUserRequest) (*user_dto.AuthResponse, *app_error.AppError)
	GetUser(ctx context.Context, uuid string) (*user_dto.UserResponse, *app_error.AppError)
	ListUsers(ctx context.Context) ([]user_dto.UserResponse, *app_error.AppError)
	UpdateUser(ctx context.Context, uuid string, req user_dto.UpdateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	DeleteUser(ctx context.Context, uuid string) *app_error.AppError

	// Handshake identity hooks for the websocket gateway.
	ResolveByUUID(ctx context.Context, uuid string) (*entity.User, error)
	MintGuest(ctx context.Context) (*entity.User, error)
	ReapGuest(ctx context.Context, userID int64) *app_error.AppError
}
