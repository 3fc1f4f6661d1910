package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

const sessionEventsCollection = "session_events"

// SessionEventRepository appends login/logout attempts to the session_events
// collection.
type SessionEventRepository struct {
	coll *mongo.Collection
}

func NewSessionEventRepository(db *mongo.Database) ports.SessionEventRepository {
	return &SessionEventRepository{coll: db.Collection(sessionEventsCollection)}
}

// EnsureIndexes creates the (user_id, occurred_at) index used to read a
// user's history newest first.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(sessionEventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}},
		Options: options.Index().SetName("user_occurred"),
	})
	if err != nil {
		return fmt.Errorf("create session_events index: %w", err)
	}
	return nil
}

func (r *SessionEventRepository) Insert(ctx context.Context, event *domain.SessionEvent) error {
	if _, err := r.coll.InsertOne(ctx, sessionEventDocument(event)); err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

func sessionEventDocument(event *domain.SessionEvent) bson.D {
	return bson.D{
		{Key: "user_id", Value: int64(event.UserID)},
		{Key: "transition", Value: string(event.Transition)},
		{Key: "outcome", Value: event.Outcome},
		{Key: "occurred_at", Value: event.OccurredAt.UTC()},
	}
}
