package user_service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/dtos/user_dto"
	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	user_repo "github.com/daniel-training/chat-backend/internal/repo/user"
	"github.com/daniel-training/chat-backend/internal/utils"
	"github.com/daniel-training/chat-backend/state"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(userUUID string) string {
	return fmt.Sprintf("user:%s", userUUID)
}

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	filter := entity.UserFilter{
		Nickname: &req.Nickname,
	}
	count, err := u.UserRepo.CountUser(ctx, filter)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, app_error.NewAppError(http.StatusConflict, "nickname already registered", "credential-registered")
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, hashErr.Error(), "password")
	}

	user := &entity.User{
		UUID:     uuid.New().String(),
		Role:     entity.RoleUser,
		Nickname: req.Nickname,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Active:   true,
		Password: hashed,
	}

	if err := u.UserRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginUserRequest) (*user_dto.AuthResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindByNickname(ctx, req.Nickname)
	if err != nil {
		// Do not leak whether the nickname exists.
		return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid credentials", "credentials")
	}

	ok, verifyErr := utils.VerifyHash(user.Password, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid credentials", "credentials")
	}

	if !user.Active {
		return nil, app_error.NewAppError(http.StatusForbidden, "account is deactivated", "account")
	}

	token, signErr := utils.IssueAccessToken(user.UUID, user.Nickname, string(user.Role), u.AppState.JwtSecret.Private)
	if signErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to issue token", "token")
	}

	return &user_dto.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, nil
}

func (u *UserService) GetUser(ctx context.Context, userUUID string) (*user_dto.UserResponse, *app_error.AppError) {
	cacheKey := userCacheKey(userUUID)
	if cached, _ := utils.GetCacheData[user_dto.UserResponse](ctx, u.AppState.Redis, cacheKey); cached != nil {
		return cached, nil
	}

	user, err := u.UserRepo.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	if err := utils.SetCacheData(ctx, u.AppState.Redis, cacheKey, &resp, userCacheTTL); err != nil {
		log.Warn().Err(err).Str("uuid", userUUID).Msg("failed to cache user profile")
	}
	return &resp, nil
}

func (u *UserService) ListUsers(ctx context.Context) ([]user_dto.UserResponse, *app_error.AppError) {
	users, err := u.UserRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]user_dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out, nil
}

func (u *UserService) UpdateUser(ctx context.Context, userUUID string, req user_dto.UpdateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if user.IsGuest() {
		return nil, app_error.NewAppError(http.StatusForbidden, "guest accounts cannot be updated", "role")
	}

	user.Name = req.Name
	user.Surname = req.Surname
	user.Email = req.Email

	if err := u.UserRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if err := utils.DeleteCacheData(ctx, u.AppState.Redis, userCacheKey(userUUID)); err != nil {
		log.Warn().Err(err).Str("uuid", userUUID).Msg("failed to invalidate user cache")
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (u *UserService) DeleteUser(ctx context.Context, userUUID string) *app_error.AppError {
	user, err := u.UserRepo.FindByUUID(ctx, userUUID)
	if err != nil {
		return err
	}
	if err := u.UserRepo.DeleteByID(ctx, user.ID); err != nil {
		return err
	}
	if err := utils.DeleteCacheData(ctx, u.AppState.Redis, userCacheKey(userUUID)); err != nil {
		log.Warn().Err(err).Str("uuid", userUUID).Msg("failed to invalidate user cache")
	}
	return nil
}

// ResolveByUUID serves the websocket handshake: a verified token subject
// must still map to a live, active account.
func (u *UserService) ResolveByUUID(ctx context.Context, userUUID string) (*entity.User, error) {
	user, err := u.UserRepo.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, app_error.NewAppError(http.StatusForbidden, "account is deactivated", "account")
	}
	return user, nil
}

// MintGuest creates a throwaway guest account for a tokenless handshake.
// The row exists so the guest has a stable numeric id while connected; the
// reap job deletes it once the last connection closes.
func (u *UserService) MintGuest(ctx context.Context) (*entity.User, error) {
	guestUUID := uuid.New()
	user := &entity.User{
		UUID:     guestUUID.String(),
		Role:     entity.RoleGuest,
		Nickname: fmt.Sprintf("guest-%s", guestUUID.String()[:8]),
		Active:   true,
	}

	if err := u.UserRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	log.Debug().Str("nickname", user.Nickname).Msg("guest identity minted")
	return user, nil
}

func (u *UserService) ReapGuest(ctx context.Context, userID int64) *app_error.AppError {
	return u.UserRepo.DeleteByID(ctx, userID)
}

func toUserResponse(user *entity.User) user_dto.UserResponse {
	return user_dto.UserResponse{
		UUID:      user.UUID,
		Nickname:  user.Nickname,
		Name:      user.Name,
		Surname:   user.Surname,
		Email:     user.Email,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
