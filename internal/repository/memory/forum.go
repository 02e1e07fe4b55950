package memory

import (
	"context"
	"sort"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type forumRepo struct{ s *Store }

func (r *forumRepo) CreatePost(_ context.Context, post *domain.ForumPost) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	r.s.posts[post.ID] = *post
	return post.ID, nil
}

func (r *forumRepo) GetPost(_ context.Context, id primitive.ObjectID) (*domain.ForumPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *forumRepo) ListPosts(_ context.Context, limit int64) ([]domain.ForumPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.ForumPost, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *forumRepo) UpdatePost(_ context.Context, post *domain.ForumPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	post.UserID = existing.UserID
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now().UTC()
	r.s.posts[post.ID] = *post
	return nil
}

func (r *forumRepo) DeletePost(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *forumRepo) CreateComment(_ context.Context, comment *domain.ForumComment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.s.comments[comment.ID] = *comment
	return comment.ID, nil
}

func (r *forumRepo) GetComment(_ context.Context, id primitive.ObjectID) (*domain.ForumComment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *forumRepo) ListComments(_ context.Context, postID primitive.ObjectID) ([]domain.ForumComment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.ForumComment{}
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID) })
	return out, nil
}

func (r *forumRepo) CountComments(_ context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[primitive.ObjectID]int64, len(postIDs))
	for _, c := range r.s.comments {
		if containsID(postIDs, c.PostID) {
			out[c.PostID]++
		}
	}
	return out, nil
}

func (r *forumRepo) UpdateComment(_ context.Context, comment *domain.ForumComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	comment.PostID = existing.PostID
	comment.UserID = existing.UserID
	comment.CreatedAt = existing.CreatedAt
	comment.UpdatedAt = time.Now().UTC()
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *forumRepo) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}
