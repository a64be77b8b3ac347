package room_service

import (
	"context"

	"github.com/daniel-training/chat-backend/internal/dtos/room_dto"
	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
)

type RoomServiceContract interface {
	CreateRoom(ctx context.Context, req room_dto.CreateRoomRequest, requesterUUID string) (*room_dto.RoomResponse, *app_error.AppError)
	GetRoom(ctx context.Context, title string) (*room_dto.RoomResponse, *app_error.AppError)
	ListRooms(ctx context.Context) ([]room_dto.RoomResponse, *app_error.AppError)
	UpdateRoom(ctx context.Context, title string, req room_dto.UpdateRoomRequest, requesterUUID string) (*room_dto.RoomResponse, *app_error.AppError)
	DeleteRoom(ctx context.Context, title string, requesterUUID string) *app_error.AppError
	History(ctx context.Context, title string, limit int, beforeID *string) (*room_dto.HistoryResponse, *app_error.AppError)

	// PersistCreated stores a durable room the gateway auto-created from a
	// subscribe frame.
	PersistCreated(ctx context.Context, room *entity.Room) *app_error.AppError
}
