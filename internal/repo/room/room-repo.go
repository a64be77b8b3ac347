package room_repo

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/state"
)

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

func (r *RoomRepo) SaveRoom(ctx context.Context, model *entity.Room) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Save(model).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when trying to save room", "db-save")
	}

	return nil
}

func (r *RoomRepo) FindByUUID(ctx context.Context, uuid string) (*entity.Room, *app_error.AppError) {
	var room entity.Room

	if err := r.AppState.DB.WithContext(ctx).Preload("Owner").Where("uuid = ?", uuid).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "room not found", "room-uuid")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch room", "db-error")
	}

	return &room, nil
}

func (r *RoomRepo) FindByTitle(ctx context.Context, title string) (*entity.Room, *app_error.AppError) {
	var room entity.Room

	if err := r.AppState.DB.WithContext(ctx).Preload("Owner").Where("title = ?", title).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "room not found", "room-title")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch room", "db-error")
	}

	return &room, nil
}

// ListDurable returns every SYSTEM and PERSISTENT room. The boot sequence
// seeds these into the live room manager; EPHEMERAL rooms are never stored.
func (r *RoomRepo) ListDurable(ctx context.Context) ([]*entity.Room, *app_error.AppError) {
	var rooms []*entity.Room

	err := r.AppState.DB.WithContext(ctx).
		Preload("Owner").
		Where("kind IN ?", []entity.RoomKind{entity.RoomSystem, entity.RoomPersistent}).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when listing rooms", "db-error")
	}

	return rooms, nil
}

func (r *RoomRepo) DeleteByID(ctx context.Context, id int64) *app_error.AppError {
	result := r.AppState.DB.WithContext(ctx).Delete(&entity.Room{}, id)
	if result.Error != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when deleting room", "db-delete")
	}
	if result.RowsAffected == 0 {
		return app_error.NewAppError(http.StatusNotFound, "room not found", "room-id")
	}

	return nil
}
