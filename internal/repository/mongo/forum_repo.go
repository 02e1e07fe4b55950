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

type mongoForumRepository struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

func NewMongoForumRepository(db *mongo.Database) repository.ForumRepository {
	return &mongoForumRepository{
		posts:    db.Collection(forumPostCollectionName),
		comments: db.Collection(forumCommentCollectionName),
	}
}

func (r *mongoForumRepository) CreatePost(ctx context.Context, post *domain.ForumPost) (primitive.ObjectID, error) {
	post.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return primitive.NilObjectID, err
	}
	return post.ID, nil
}

func (r *mongoForumRepository) GetPost(ctx context.Context, id primitive.ObjectID) (*domain.ForumPost, error) {
	return findOne[domain.ForumPost](ctx, r.posts, bson.M{"_id": id})
}

func (r *mongoForumRepository) ListPosts(ctx context.Context, limit int64) ([]domain.ForumPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[domain.ForumPost](ctx, r.posts, bson.M{}, opts)
}

func (r *mongoForumRepository) UpdatePost(ctx context.Context, post *domain.ForumPost) error {
	post.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"updatedAt": post.UpdatedAt,
	}}
	result, err := r.posts.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoForumRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	_, err = r.comments.DeleteMany(ctx, bson.M{"postId": id})
	return err
}

func (r *mongoForumRepository) CreateComment(ctx context.Context, comment *domain.ForumComment) (primitive.ObjectID, error) {
	comment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return primitive.NilObjectID, err
	}
	return comment.ID, nil
}

func (r *mongoForumRepository) GetComment(ctx context.Context, id primitive.ObjectID) (*domain.ForumComment, error) {
	return findOne[domain.ForumComment](ctx, r.comments, bson.M{"_id": id})
}

func (r *mongoForumRepository) ListComments(ctx context.Context, postID primitive.ObjectID) ([]domain.ForumComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[domain.ForumComment](ctx, r.comments, bson.M{"postId": postID}, opts)
}

func (r *mongoForumRepository) CountComments(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$postId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID primitive.ObjectID `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.Count
	}
	return out, nil
}

func (r *mongoForumRepository) UpdateComment(ctx context.Context, comment *domain.ForumComment) error {
	comment.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{"content": comment.Content, "updatedAt": comment.UpdatedAt}}
	result, err := r.comments.UpdateOne(ctx, bson.M{"_id": comment.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoForumRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureForumIndexes(ctx context.Context, posts, comments *mongo.Collection) {
	createIndexes(ctx, posts, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	createIndexes(ctx, comments, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
}
