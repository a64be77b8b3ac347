package worker_handler

import (
	message_repo "github.com/daniel-training/chat-backend/internal/repo/message"
	room_repo "github.com/daniel-training/chat-backend/internal/repo/room"
	user_repo "github.com/daniel-training/chat-backend/internal/repo/user"
	"github.com/daniel-training/chat-backend/state"
)

type WorkerHandler struct {
	AppState    *state.AppState
	MessageRepo message_repo.MessageRepoContract
	RoomRepo    room_repo.RoomRepoContract
	UserRepo    user_repo.UserRepoContract
}

func NewWorkerHandler(appState *state.AppState) *WorkerHandler {
	return &WorkerHandler{
		AppState:    appState,
		MessageRepo: message_repo.NewMessageRepo(appState),
		RoomRepo:    room_repo.NewRoomRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
	}
}
