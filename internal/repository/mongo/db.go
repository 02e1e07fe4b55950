package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

const (
	userCollectionName            = "users"
	clientCollectionName          = "clients"
	trainerCollectionName         = "trainers"
	exerciseCollectionName        = "exercises"
	routineCollectionName         = "routines"
	routineExerciseCollectionName = "routine_exercises"
	assignmentCollectionName      = "routine_assignments"
	progressCollectionName        = "progress_records"
	forumPostCollectionName       = "forum_posts"
	forumCommentCollectionName    = "forum_comments"
	subscriptionCollectionName    = "subscriptions"
)

// ConnectDB establishes a connection to MongoDB and pings the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged, not fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureUserIndexes(ctx, db.Collection(userCollectionName))
	EnsureClientIndexes(ctx, db.Collection(clientCollectionName))
	EnsureTrainerIndexes(ctx, db.Collection(trainerCollectionName))
	EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName))
	EnsureRoutineIndexes(ctx, db.Collection(routineCollectionName), db.Collection(routineExerciseCollectionName))
	EnsureAssignmentIndexes(ctx, db.Collection(assignmentCollectionName))
	EnsureProgressIndexes(ctx, db.Collection(progressCollectionName))
	EnsureForumIndexes(ctx, db.Collection(forumPostCollectionName), db.Collection(forumCommentCollectionName))
	EnsureSubscriptionIndexes(ctx, db.Collection(subscriptionCollectionName))
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.WithError(err).WithField("collection", collection.Name()).Warn("failed to create indexes")
	}
}

// findOne decodes a single document, mapping "no documents" to repository.ErrNotFound.
func findOne[T any](ctx context.Context, collection *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	err := collection.FindOne(ctx, filter, opts...).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// findAll decodes every matching document. The result is never nil.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// countGroup is one row of a {$group: {_id: field, count: {$sum: 1}}} stage.
type countGroup struct {
	Key    string  `bson:"_id"`
	Count  int64   `bson:"count"`
	Amount float64 `bson:"amount"`
}

func groupCounts(ctx context.Context, collection *mongo.Collection, field string, sumField string) ([]countGroup, error) {
	group := bson.D{
		{Key: "_id", Value: "$" + field},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}
	if sumField != "" {
		group = append(group, bson.E{Key: "amount", Value: bson.D{{Key: "$sum", Value: "$" + sumField}}})
	}
	cursor, err := collection.Aggregate(ctx, mongo.Pipeline{{{Key: "$group", Value: group}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []countGroup
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}
