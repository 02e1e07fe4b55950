package memory

import (
	"context"
	"sort"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) Create(_ context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	r.s.subscriptions[sub.ID] = *sub
	return sub.ID, nil
}

func (r *subscriptionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sub, nil
}

func (r *subscriptionRepo) FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Subscription, error) {
	all, _ := r.ListByClient(ctx, clientID)
	for i := range all {
		if all[i].Status == domain.SubscriptionActive {
			return &all[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *subscriptionRepo) ListByClient(_ context.Context, clientID primitive.ObjectID) ([]domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Subscription{}
	for _, sub := range r.s.subscriptions {
		if sub.ClientID == clientID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *subscriptionRepo) CancelActiveByClient(_ context.Context, clientID primitive.ObjectID, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sub := range r.s.subscriptions {
		if sub.ClientID != clientID || sub.Status != domain.SubscriptionActive {
			continue
		}
		canceledAt := at
		sub.Status = domain.SubscriptionCanceled
		sub.CanceledAt = &canceledAt
		sub.UpdatedAt = time.Now().UTC()
		r.s.subscriptions[id] = sub
		n++
	}
	return n, nil
}

func (r *subscriptionRepo) ListExpired(_ context.Context, now time.Time) ([]domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Subscription{}
	for _, sub := range r.s.subscriptions {
		if sub.Status == domain.SubscriptionActive && sub.EndDate.Before(now) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (r *subscriptionRepo) MarkExpired(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subscriptions[id]
	if !ok || sub.Status != domain.SubscriptionActive {
		return repository.ErrNotFound
	}
	expiredAt := at
	sub.Status = domain.SubscriptionExpired
	sub.ExpiredAt = &expiredAt
	sub.UpdatedAt = time.Now().UTC()
	r.s.subscriptions[id] = sub
	return nil
}

func (r *subscriptionRepo) Totals(_ context.Context) (*repository.SubscriptionTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := &repository.SubscriptionTotals{ByStatus: map[domain.SubscriptionStatus]int64{}}
	for _, sub := range r.s.subscriptions {
		totals.ByStatus[sub.Status]++
		if sub.Status == domain.SubscriptionActive {
			totals.ActiveRevenue += sub.Amount
		}
	}
	return totals, nil
}
