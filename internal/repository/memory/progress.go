package memory

import (
	"context"
	"sort"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type progressRepo struct{ s *Store }

func (r *progressRepo) Create(_ context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if record.Date.IsZero() {
		record.Date = now
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	stored := *record
	stored.PhotoKeys = cloneStrings(record.PhotoKeys)
	r.s.progress[stored.ID] = stored
	return stored.ID, nil
}

func (r *progressRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.progress[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.PhotoKeys = cloneStrings(p.PhotoKeys)
	return &p, nil
}

func (r *progressRepo) ListByClient(_ context.Context, clientID primitive.ObjectID, since *time.Time) ([]domain.ProgressRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.ProgressRecord{}
	for _, p := range r.s.progress {
		if p.ClientID != clientID {
			continue
		}
		if since != nil && p.Date.Before(*since) {
			continue
		}
		p.PhotoKeys = cloneStrings(p.PhotoKeys)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *progressRepo) Update(_ context.Context, record *domain.ProgressRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.progress[record.ID]
	if !ok {
		return repository.ErrNotFound
	}
	record.ClientID = existing.ClientID
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now().UTC()
	stored := *record
	stored.PhotoKeys = cloneStrings(record.PhotoKeys)
	r.s.progress[record.ID] = stored
	return nil
}

func (r *progressRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.progress[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.progress, id)
	return nil
}
