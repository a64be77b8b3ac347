package message_repo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
)

type MessageRepoContract interface {
	InsertMessage(ctx context.Context, msg *entity.ArchivedMessage) (bson.ObjectID, *app_error.AppError)
	ListByRoom(ctx context.Context, roomTitle string, limit int, beforeID *string) ([]*entity.ArchivedMessage, *app_error.AppError)
}
