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

type mongoTrainerRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{collection: db.Collection(trainerCollectionName)}
}

func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	trainer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, trainer); err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return trainer.ID, nil
}

func (r *mongoTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	return findOne[domain.Trainer](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoTrainerRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	return findOne[domain.Trainer](ctx, r.collection, bson.M{"userId": userID})
}

func (r *mongoTrainerRepository) List(ctx context.Context) ([]domain.Trainer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "names", Value: 1}})
	return findAll[domain.Trainer](ctx, r.collection, bson.M{}, opts)
}

func (r *mongoTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	trainer.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"names":          trainer.Names,
		"lastNames":      trainer.LastNames,
		"specialty":      trainer.Specialty,
		"certifications": trainer.Certifications,
		"phone":          trainer.Phone,
		"bio":            trainer.Bio,
		"updatedAt":      trainer.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": trainer.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureTrainerIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
