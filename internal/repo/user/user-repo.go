package user_repo

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/state"
)

type UserRepo struct {
	AppState *state.AppState
}

func NewUserRepo(appState *state.AppState) UserRepoContract {
	return &UserRepo{
		AppState: appState,
	}
}

func (r *UserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	var count int64

	query := r.AppState.DB.WithContext(ctx).Model(&entity.User{})

	if filter.Nickname != nil {
		query = query.Where("nickname = ?", filter.Nickname)
	}

	if filter.Email != nil {
		query = query.Where("email = ?", filter.Email)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.NewAppError(http.StatusInternalServerError, "unexpected server error", "db-count")
	}
	return count, nil
}

func (r *UserRepo) SaveUser(ctx context.Context, model *entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Save(model).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when trying to save user", "db-save")
	}

	return nil
}

func (r *UserRepo) FindByUUID(ctx context.Context, uuid string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-uuid")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) FindByNickname(ctx context.Context, nickname string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-credential")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User

	if err := r.AppState.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when listing users", "db-error")
	}

	return users, nil
}

func (r *UserRepo) DeleteByID(ctx context.Context, id int64) *app_error.AppError {
	result := r.AppState.DB.WithContext(ctx).Delete(&entity.User{}, id)
	if result.Error != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when deleting user", "db-delete")
	}
	if result.RowsAffected == 0 {
		return app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-id")
	}

	return nil
}
