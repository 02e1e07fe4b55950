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

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new assignment repository.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{collection: db.Collection(assignmentCollectionName)}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
}

func (r *mongoAssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		return primitive.NilObjectID, err
	}
	return a.ID, nil
}

func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	return findOne[domain.Assignment](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoAssignmentRepository) FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Assignment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return findOne[domain.Assignment](ctx, r.collection, bson.M{"clientId": clientID, "active": true}, opts)
}

func (r *mongoAssignmentRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error) {
	filter := bson.M{"clientId": clientID}
	if activeOnly {
		filter["active"] = true
	}
	return findAll[domain.Assignment](ctx, r.collection, filter, newestFirst())
}

func (r *mongoAssignmentRepository) ListByRoutine(ctx context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error) {
	return findAll[domain.Assignment](ctx, r.collection, bson.M{"routineId": routineID}, newestFirst())
}

func (r *mongoAssignmentRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error) {
	filter := bson.M{"trainerId": trainerID}
	if activeOnly {
		filter["active"] = true
	}
	return findAll[domain.Assignment](ctx, r.collection, filter, newestFirst())
}

func (r *mongoAssignmentRepository) deactivate(ctx context.Context, filter bson.M, at time.Time) (int64, error) {
	filter["active"] = true
	update := bson.M{"$set": bson.M{
		"active":    false,
		"endDate":   at,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoAssignmentRepository) DeactivateActiveByClient(ctx context.Context, clientID primitive.ObjectID, at time.Time) (int64, error) {
	return r.deactivate(ctx, bson.M{"clientId": clientID}, at)
}

func (r *mongoAssignmentRepository) DeactivateByIDs(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.deactivate(ctx, bson.M{"_id": bson.M{"$in": ids}}, at)
}

func (r *mongoAssignmentRepository) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"trainerId": trainerID})
}

func (r *mongoAssignmentRepository) DeleteByRoutine(ctx context.Context, routineID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"routineId": routineID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureAssignmentIndexes creates indexes for the routine_assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "routineId", Value: 1}}},
	})
}
