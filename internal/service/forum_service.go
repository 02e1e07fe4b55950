package service

import (
	"context"
	"strings"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPostLimit = 50
	maxPostLimit     = 200
)

type PostSummary struct {
	Post     domain.ForumPost
	Comments int64
}

type PostDetail struct {
	Post     *domain.ForumPost
	Comments []domain.ForumComment
}

type ForumService interface {
	ListPosts(ctx context.Context, limit int) ([]PostSummary, error)
	GetPost(ctx context.Context, id primitive.ObjectID) (*PostDetail, error)
	CreatePost(ctx context.Context, userID primitive.ObjectID, title, content string) (*domain.ForumPost, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, title, content string) (*domain.ForumPost, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error

	AddComment(ctx context.Context, postID, userID primitive.ObjectID, content string) (*domain.ForumComment, error)
	GetComment(ctx context.Context, id primitive.ObjectID) (*domain.ForumComment, error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*domain.ForumComment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

type forumService struct {
	forum repository.ForumRepository
}

func NewForumService(forum repository.ForumRepository) ForumService {
	return &forumService{forum: forum}
}

func (s *forumService) ListPosts(ctx context.Context, limit int) ([]PostSummary, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}
	posts, err := s.forum.ListPosts(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.forum.CountComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = PostSummary{Post: p, Comments: counts[p.ID]}
	}
	return out, nil
}

func (s *forumService) GetPost(ctx context.Context, id primitive.ObjectID) (*PostDetail, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.forum.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *forumService) getPost(ctx context.Context, id primitive.ObjectID) (*domain.ForumPost, error) {
	post, err := s.forum.GetPost(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return post, nil
}

func (s *forumService) CreatePost(ctx context.Context, userID primitive.ObjectID, title, content string) (*domain.ForumPost, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, invalidInput("title and content are required")
	}
	post := &domain.ForumPost{UserID: userID, Title: title, Content: content}
	if _, err := s.forum.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *forumService) UpdatePost(ctx context.Context, id primitive.ObjectID, title, content string) (*domain.ForumPost, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(title); t != "" {
		post.Title = t
	}
	if c := strings.TrimSpace(content); c != "" {
		post.Content = c
	}
	if err := s.forum.UpdatePost(ctx, post); err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return post, nil
}

func (s *forumService) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	return notFound(s.forum.DeletePost(ctx, id), ErrPostNotFound)
}

func (s *forumService) AddComment(ctx context.Context, postID, userID primitive.ObjectID, content string) (*domain.ForumComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("content is required")
	}
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &domain.ForumComment{PostID: postID, UserID: userID, Content: content}
	if _, err := s.forum.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *forumService) GetComment(ctx context.Context, id primitive.ObjectID) (*domain.ForumComment, error) {
	comment, err := s.forum.GetComment(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return comment, nil
}

func (s *forumService) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*domain.ForumComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("content is required")
	}
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.forum.UpdateComment(ctx, comment); err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return comment, nil
}

func (s *forumService) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	return notFound(s.forum.DeleteComment(ctx, id), ErrCommentNotFound)
}
