package message_repo

import (
	"context"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/daniel-training/chat-backend/internal/entity"
	app_error "github.com/daniel-training/chat-backend/internal/errors"
	"github.com/daniel-training/chat-backend/state"
)

const (
	archiveDatabase   = "chat_archive"
	archiveCollection = "messages"
)

type MessageRepo struct {
	AppState *state.AppState
}

func NewMessageRepo(appState *state.AppState) MessageRepoContract {
	return &MessageRepo{
		AppState: appState,
	}
}

func (r *MessageRepo) collection() *mongo.Collection {
	return r.AppState.Mongo.Database(archiveDatabase).Collection(archiveCollection)
}

func (r *MessageRepo) InsertMessage(ctx context.Context, msg *entity.ArchivedMessage) (bson.ObjectID, *app_error.AppError) {
	res, err := r.collection().InsertOne(ctx, msg)
	if err != nil {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to archive message: %v", err), "mongo")
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, app_error.NewAppError(http.StatusInternalServerError, "unexpected inserted id type", "mongo")
	}
	return id, nil
}

// ListByRoom pages a room's archive newest-first and returns the page in
// chronological order. beforeID is the _id cursor from the previous page.
func (r *MessageRepo) ListByRoom(ctx context.Context, roomTitle string, limit int, beforeID *string) ([]*entity.ArchivedMessage, *app_error.AppError) {
	filter := bson.M{"roomTitle": roomTitle}

	if beforeID != nil {
		objID, err := bson.ObjectIDFromHex(*beforeID)
		if err != nil {
			return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("error when trying to parse before_id: %v", err), "before-id")
		}
		filter["_id"] = bson.M{"$lt": objID}
	}

	cur, err := r.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var messages []*entity.ArchivedMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	// reverse to ascending order (oldest to newest)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
