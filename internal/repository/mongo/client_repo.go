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

type mongoClientRepository struct {
	collection *mongo.Collection
}

func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{collection: db.Collection(clientCollectionName)}
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if client.RegisteredAt.IsZero() {
		client.RegisteredAt = now
	}
	client.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, client); err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	return client.ID, nil
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoClientRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.collection, bson.M{"userId": userID})
}

func (r *mongoClientRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Client, error) {
	if len(ids) == 0 {
		return []domain.Client{}, nil
	}
	return findAll[domain.Client](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}})
	return findAll[domain.Client](ctx, r.collection, bson.M{}, opts)
}

// Update overwrites the profile and body metrics. userId, plan and registeredAt are left alone.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"dni":       client.DNI,
		"names":     client.Names,
		"lastNames": client.LastNames,
		"phone":     client.Phone,
		"birthDate": client.BirthDate,
		"gender":    client.Gender,
		"address":   client.Address,
		"weight":    client.Weight,
		"height":    client.Height,
		"updatedAt": client.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		return mapWriteErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) UpdatePlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanTier) error {
	return r.set(ctx, id, bson.M{"plan": plan})
}

func (r *mongoClientRepository) UpdateWeight(ctx context.Context, id primitive.ObjectID, weight float64) error {
	return r.set(ctx, id, bson.M{"weight": weight})
}

func (r *mongoClientRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) CountByPlan(ctx context.Context) (map[domain.PlanTier]int64, error) {
	rows, err := groupCounts(ctx, r.collection, "plan", "")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.PlanTier]int64, len(rows))
	for _, row := range rows {
		out[domain.NormalizePlanTier(row.Key)] += row.Count
	}
	return out, nil
}

func (r *mongoClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// dni is optional, so only index documents that carry one.
			Keys:    bson.D{{Key: "dni", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
}
