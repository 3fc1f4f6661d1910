package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/postblog/platform/internal/core/domain"
)

func TestSessionEventDocument(t *testing.T) {
	at := time.Date(2030, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	doc := sessionEventDocument(&domain.SessionEvent{
		UserID:     7,
		Transition: domain.TransitionLogin,
		Outcome:    "password does not match",
		OccurredAt: at,
	})

	require.Equal(t, bson.D{
		{Key: "user_id", Value: int64(7)},
		{Key: "transition", Value: "login"},
		{Key: "outcome", Value: "password does not match"},
		{Key: "occurred_at", Value: at.UTC()},
	}, doc)
}

func TestSessionEventRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewSessionEventRepository(mt.DB).Insert(ctx, &domain.SessionEvent{
			UserID:     1,
			Transition: domain.TransitionLogout,
			Outcome:    domain.OutcomeOK,
			OccurredAt: time.Now(),
		})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		require.Equal(mt, "insert", started.CommandName)
		require.Equal(mt, sessionEventsCollection, started.Command.Lookup("insert").StringValue())
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		err := NewSessionEventRepository(mt.DB).Insert(ctx, &domain.SessionEvent{UserID: 1, Transition: domain.TransitionLogin})
		require.ErrorContains(mt, err, "insert session event")
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, EnsureIndexes(ctx, mt.DB))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		require.Equal(mt, "createIndexes", started.CommandName)
		require.Equal(mt, sessionEventsCollection, started.Command.Lookup("createIndexes").StringValue())
	})
}
