package room_repo

import (
	"context"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
)

type RoomRepoContract interface {
	SaveRoom(ctx context.Context, model *entity.Room) *app_error.AppError
	FindByUUID(ctx context.Context, uuid string) (*entity.Room, *app_error.AppError)
	FindByTitle(ctx context.Context, title string) (*entity.Room, *app_error.AppError)
	ListDurable(ctx context.Context) ([]*entity.Room, *app_error.AppError)
	DeleteByID(ctx context.Context, id int64) *app_error.AppError
}
