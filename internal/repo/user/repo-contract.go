package user_repo

import (
	"context"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
)

type UserRepoContract interface {
	CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError)
	SaveUser(ctx context.Context, model *entity.User) *app_error.AppError
	FindByUUID(ctx context.Context, uuid string) (*entity.User, *app_error.AppError)
	FindByNickname(ctx context.Context, nickname string) (*entity.User, *app_error.AppError)
	ListUsers(ctx context.Context) ([]*entity.User, *app_error.AppError)
	DeleteByID(ctx context.Context, id int64) *app_error.AppError
}
