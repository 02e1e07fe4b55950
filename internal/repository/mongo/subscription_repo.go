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

type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{collection: db.Collection(subscriptionCollectionName)}
}

func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	sub.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, sub); err != nil {
		return primitive.NilObjectID, err
	}
	return sub.ID, nil
}

func (r *mongoSubscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	return findOne[domain.Subscription](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoSubscriptionRepository) FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Subscription, error) {
	filter := bson.M{"clientId": clientID, "status": domain.SubscriptionActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return findOne[domain.Subscription](ctx, r.collection, filter, opts)
}

func (r *mongoSubscriptionRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[domain.Subscription](ctx, r.collection, bson.M{"clientId": clientID}, opts)
}

func (r *mongoSubscriptionRepository) CancelActiveByClient(ctx context.Context, clientID primitive.ObjectID, at time.Time) (int64, error) {
	filter := bson.M{"clientId": clientID, "status": domain.SubscriptionActive}
	update := bson.M{"$set": bson.M{
		"status":     domain.SubscriptionCanceled,
		"canceledAt": at,
		"updatedAt":  time.Now().UTC(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoSubscriptionRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	filter := bson.M{"status": domain.SubscriptionActive, "endDate": bson.M{"$lt": now}}
	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}})
	return findAll[domain.Subscription](ctx, r.collection, filter, opts)
}

// MarkExpired only matches rows still ACTIVA, so two overlapping sweeps cannot both count a row.
func (r *mongoSubscriptionRepository) MarkExpired(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "status": domain.SubscriptionActive}
	update := bson.M{"$set": bson.M{
		"status":    domain.SubscriptionExpired,
		"expiredAt": at,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSubscriptionRepository) Totals(ctx context.Context) (*repository.SubscriptionTotals, error) {
	rows, err := groupCounts(ctx, r.collection, "status", "amount")
	if err != nil {
		return nil, err
	}
	totals := &repository.SubscriptionTotals{ByStatus: make(map[domain.SubscriptionStatus]int64, len(rows))}
	for _, row := range rows {
		status := domain.SubscriptionStatus(row.Key)
		totals.ByStatus[status] = row.Count
		if status == domain.SubscriptionActive {
			totals.ActiveRevenue = row.Amount
		}
	}
	return totals, nil
}

func EnsureSubscriptionIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: -1}}},
	})
}
