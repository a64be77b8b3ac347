package room_service

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/daniel-training/chat-backend/internal/chat"
	"github.com/daniel-training/chat-backend/internal/dtos/room_dto"
	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	message_repo "github.com/daniel-training/chat-backend/internal/repo/message"
	room_repo "github.com/daniel-training/chat-backend/internal/repo/room"
	user_repo "github.com/daniel-training/chat-backend/internal/repo/user"
	"github.com/daniel-training/chat-backend/state"
)

// RoomService bridges the REST surface and the live room manager. Durable
// rooms are written to postgres and mirrored into the manager so that
// websocket traffic and REST reads agree.
type RoomService struct {
	AppState    *state.AppState
	RoomRepo    room_repo.RoomRepoContract
	UserRepo    user_repo.UserRepoContract
	MessageRepo message_repo.MessageRepoContract

	Live *chat.Rooms
	Subs *chat.Table
}

func NewRoomService(appState *state.AppState, live *chat.Rooms, subs *chat.Table) RoomServiceContract {
	return &RoomService{
		AppState:    appState,
		RoomRepo:    room_repo.NewRoomRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
		MessageRepo: message_repo.NewMessageRepo(appState),
		Live:        live,
		Subs:        subs,
	}
}

func (s *RoomService) CreateRoom(ctx context.Context, req room_dto.CreateRoomRequest, requesterUUID string) (*room_dto.RoomResponse, *app_error.AppError) {
	requester, err := s.UserRepo.FindByUUID(ctx, requesterUUID)
	if err != nil {
		return nil, err
	}
	if requester.IsGuest() {
		return nil, app_error.NewAppError(http.StatusForbidden, "guests cannot create rooms here, subscribe instead", "role")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, app_error.NewAppError(http.StatusBadRequest, "room title is required", "title")
	}

	if _, ok := s.Live.Get(title); ok {
		return nil, app_error.NewAppError(http.StatusConflict, "room title already taken", "title")
	}

	kind := entity.RoomPersistent
	if requester.Role == entity.RoleSystem {
		kind = entity.RoomSystem
	}

	room := &entity.Room{
		UUID:        uuid.New().String(),
		Title:       title,
		Description: req.Description,
		OwnerID:     requester.ID,
		Kind:        kind,
	}

	if err := s.RoomRepo.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	live := s.Live.Seed(room, requester)
	resp := s.toRoomResponse(live)
	return &resp, nil
}

func (s *RoomService) GetRoom(ctx context.Context, title string) (*room_dto.RoomResponse, *app_error.AppError) {
	room, ok := s.Live.Get(title)
	if !ok {
		return nil, app_error.NewAppError(http.StatusNotFound, "room not found", "title")
	}

	resp := s.toRoomResponse(room)
	return &resp, nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]room_dto.RoomResponse, *app_error.AppError) {
	rooms := s.Live.List()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Title < rooms[j].Title })

	out := make([]room_dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, s.toRoomResponse(room))
	}
	return out, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, title string, req room_dto.UpdateRoomRequest, requesterUUID string) (*room_dto.RoomResponse, *app_error.AppError) {
	requester, err := s.UserRepo.FindByUUID(ctx, requesterUUID)
	if err != nil {
		return nil, err
	}

	room, ok := s.Live.Get(title)
	if !ok {
		return nil, app_error.NewAppError(http.StatusNotFound, "room not found", "title")
	}

	isOwner := room.Owner != nil && room.Owner.ID == requester.ID
	isAdmin := requester.Role == entity.RoleAdmin || requester.Role == entity.RoleSystem
	if !isOwner && !isAdmin {
		return nil, app_error.NewAppError(http.StatusForbidden, "only the owner or an admin can update a room", "role")
	}

	if room.Kind != entity.RoomEphemeral {
		stored, err := s.RoomRepo.FindByTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		stored.Description = req.Description
		if err := s.RoomRepo.SaveRoom(ctx, stored); err != nil {
			return nil, err
		}
	}

	s.Live.Redescribe(title, req.Description)
	room, _ = s.Live.Get(title)
	resp := s.toRoomResponse(room)
	return &resp, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, title string, requesterUUID string) *app_error.AppError {
	requester, err := s.UserRepo.FindByUUID(ctx, requesterUUID)
	if err != nil {
		return err
	}

	room, ok := s.Live.Get(title)
	if !ok {
		return app_error.NewAppError(http.StatusNotFound, "room not found", "title")
	}

	isOwner := room.Owner != nil && room.Owner.ID == requester.ID
	isAdmin := requester.Role == entity.RoleAdmin || requester.Role == entity.RoleSystem
	if !isOwner && !isAdmin {
		return app_error.NewAppError(http.StatusForbidden, "only the owner or an admin can delete a room", "role")
	}

	if room.Kind != entity.RoomEphemeral {
		stored, err := s.RoomRepo.FindByTitle(ctx, title)
		if err != nil {
			return err
		}
		if err := s.RoomRepo.DeleteByID(ctx, stored.ID); err != nil {
			return err
		}
	}

	s.Live.Drop(title)
	log.Info().Str("title", title).Str("by", requester.Nickname).Msg("room deleted")
	return nil
}

func (s *RoomService) History(ctx context.Context, title string, limit int, beforeID *string) (*room_dto.HistoryResponse, *app_error.AppError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	messages, err := s.MessageRepo.ListByRoom(ctx, title, limit, beforeID)
	if err != nil {
		return nil, err
	}

	resp := &room_dto.HistoryResponse{
		Room:     title,
		Messages: make([]room_dto.MessageSnippet, 0, len(messages)),
	}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, room_dto.MessageSnippet{
			UUID:      msg.UUID,
			Sender:    msg.Sender,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}
	if len(messages) == limit {
		cursor := messages[0].ID.Hex()
		resp.NextPage = &cursor
	}
	return resp, nil
}

// PersistCreated stores a durable room the gateway auto-created from a
// subscribe frame. Failures are logged, not fatal: the live room keeps
// serving traffic either way.
func (s *RoomService) PersistCreated(ctx context.Context, room *entity.Room) *app_error.AppError {
	if room.Kind == entity.RoomEphemeral {
		return nil
	}
	if err := s.RoomRepo.SaveRoom(ctx, room); err != nil {
		log.Error().Str("title", room.Title).Msg("failed to persist auto-created room")
		return err
	}
	return nil
}

func (s *RoomService) toRoomResponse(room *chat.Room) room_dto.RoomResponse {
	owner := ""
	if room.Owner != nil {
		owner = room.Owner.Nickname
	}
	return room_dto.RoomResponse{
		UUID:           room.UUID,
		Title:          room.Title,
		Description:    room.Description,
		Kind:           string(room.Kind),
		Owner:          owner,
		Subscribers:    s.Subs.Count(room.ID),
		CreatedAt:      room.CreatedAt,
		LastActivityAt: s.Live.LastActive(room.ID),
	}
}
