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

type mongoRoutineRepository struct {
	collection *mongo.Collection
}

func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{collection: db.Collection(routineCollectionName)}
}

func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, routine); err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return routine.ID, nil
}

func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	return findOne[domain.Routine](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoRoutineRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error) {
	if len(ids) == 0 {
		return []domain.Routine{}, nil
	}
	return findAll[domain.Routine](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoRoutineRepository) List(ctx context.Context, filter repository.RoutineFilter) ([]domain.Routine, error) {
	query := bson.M{}
	if filter.TrainerID != nil {
		query["trainerId"] = *filter.TrainerID
	}
	if filter.Generic != nil {
		query["isGeneric"] = *filter.Generic
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[domain.Routine](ctx, r.collection, query, opts)
}

func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	routine.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":          routine.Name,
		"description":   routine.Description,
		"goal":          routine.Goal,
		"durationWeeks": routine.DurationWeeks,
		"isGeneric":     routine.IsGeneric,
		"updatedAt":     routine.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": routine.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRoutineRepository) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"trainerId": trainerID})
}

type mongoRoutineExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoRoutineExerciseRepository(db *mongo.Database) repository.RoutineExerciseRepository {
	return &mongoRoutineExerciseRepository{collection: db.Collection(routineExerciseCollectionName)}
}

func (r *mongoRoutineExerciseRepository) Create(ctx context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

func (r *mongoRoutineExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	return findOne[domain.RoutineExercise](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoRoutineExerciseRepository) ListByRoutine(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineExercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "order", Value: 1}})
	return findAll[domain.RoutineExercise](ctx, r.collection, bson.M{"routineId": routineID}, opts)
}

func (r *mongoRoutineExerciseRepository) Update(ctx context.Context, entry *domain.RoutineExercise) error {
	update := bson.M{"$set": bson.M{
		"exerciseId":  entry.ExerciseID,
		"day":         entry.Day,
		"order":       entry.Order,
		"sets":        entry.Sets,
		"reps":        entry.Reps,
		"restSeconds": entry.RestSeconds,
		"notes":       entry.Notes,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRoutineExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoRoutineExerciseRepository) DeleteByRoutine(ctx context.Context, routineID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"routineId": routineID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func EnsureRoutineIndexes(ctx context.Context, routines, entries *mongo.Collection) {
	createIndexes(ctx, routines, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isGeneric", Value: 1}}},
	})
	createIndexes(ctx, entries, []mongo.IndexModel{
		{Keys: bson.D{{Key: "routineId", Value: 1}, {Key: "day", Value: 1}, {Key: "order", Value: 1}}},
	})
}
