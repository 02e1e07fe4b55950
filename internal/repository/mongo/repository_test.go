package mongo

import (
	"context"
	"testing"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodytrack.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ana@gym.test"},
			{Key: "role", Value: "client"},
			{Key: "active", Value: true},
		}))

		user, err := NewMongoUserRepository(mt.DB).GetByEmail(context.Background(), "ANA@gym.test")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, domain.RoleClient, user.Role)
		assert.True(mt, user.Active)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodytrack.users", mtest.FirstBatch))

		_, err := NewMongoUserRepository(mt.DB).GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := NewMongoUserRepository(mt.DB).Create(context.Background(), &domain.User{
			Email:        "ana@gym.test",
			PasswordHash: "hash",
			Role:         domain.RoleClient,
		})
		assert.ErrorIs(mt, err, repository.ErrConflict)
	})

	mt.Run("set active on missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewMongoUserRepository(mt.DB).SetActive(context.Background(), primitive.NewObjectID(), false)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestSubscriptionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mark expired skips rows no longer active", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewMongoSubscriptionRepository(mt.DB).MarkExpired(context.Background(), primitive.NewObjectID(), time.Now())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("cancel active returns modified count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		n, err := NewMongoSubscriptionRepository(mt.DB).CancelActiveByClient(context.Background(), primitive.NewObjectID(), time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("totals", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodytrack.subscriptions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "ACTIVA"}, {Key: "count", Value: int32(2)}, {Key: "amount", Value: 59.98}},
			bson.D{{Key: "_id", Value: "EXPIRADA"}, {Key: "count", Value: int32(1)}, {Key: "amount", Value: 29.99}},
		))

		totals, err := NewMongoSubscriptionRepository(mt.DB).Totals(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), totals.ByStatus[domain.SubscriptionActive])
		assert.Equal(mt, int64(1), totals.ByStatus[domain.SubscriptionExpired])
		assert.InDelta(mt, 59.98, totals.ActiveRevenue, 0.001)
	})

	mt.Run("find active", func(mt *mtest.T) {
		clientID := primitive.NewObjectID()
		end := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodytrack.subscriptions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "clientId", Value: clientID},
			{Key: "plan", Value: "PREMIUM"},
			{Key: "status", Value: "ACTIVA"},
			{Key: "endDate", Value: end},
		}))

		sub, err := NewMongoSubscriptionRepository(mt.DB).FindActiveByClient(context.Background(), clientID)
		require.NoError(mt, err)
		assert.Equal(mt, domain.PlanPremium, sub.Plan)
		assert.True(mt, sub.ActiveAt(time.Now()))
	})
}

func TestExerciseRepositoryMuscleGroups(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sorted distinct values", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "values", Value: bson.A{"Legs", "Back", "Chest"}},
		))

		groups, err := NewMongoExerciseRepository(mt.DB).MuscleGroups(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"Back", "Chest", "Legs"}, groups)
	})
}

func TestTransactorDisabledRunsInline(t *testing.T) {
	called := false
	err := NewTransactor(nil, false).WithinTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
