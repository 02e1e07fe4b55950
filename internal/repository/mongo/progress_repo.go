package mongo

import (
	"context"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProgressRepository struct {
	collection *mongo.Collection
}

func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{collection: db.Collection(progressCollectionName)}
}

func (r *mongoProgressRepository) Create(ctx context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if record.Date.IsZero() {
		record.Date = now
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return primitive.NilObjectID, err
	}
	return record.ID, nil
}

func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error) {
	return findOne[domain.ProgressRecord](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoProgressRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID, since *time.Time) ([]domain.ProgressRecord, error) {
	filter := bson.M{"clientId": clientID}
	if since != nil {
		filter["date"] = bson.M{"$gte": *since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[domain.ProgressRecord](ctx, r.collection, filter, opts)
}

func (r *mongoProgressRepository) Update(ctx context.Context, record *domain.ProgressRecord) error {
	record.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"date":       record.Date,
		"weight":     record.Weight,
		"bodyFatPct": record.BodyFatPct,
		"chest":      record.Chest,
		"waist":      record.Waist,
		"hips":       record.Hips,
		"arm":        record.Arm,
		"leg":        record.Leg,
		"photoKeys":  record.PhotoKeys,
		"notes":      record.Notes,
		"updatedAt":  record.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgressRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}}},
	})
}
