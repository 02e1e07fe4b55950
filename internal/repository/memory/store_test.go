package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	clientID, err := s.Clients().Create(ctx, &domain.Client{Names: "Ana", Plan: domain.PlanFree})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Clients().UpdatePlan(ctx, clientID, domain.PlanPremium))
		_, err := s.Subscriptions().Create(ctx, &domain.Subscription{ClientID: clientID, Status: domain.SubscriptionActive})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	client, err := s.Clients().GetByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, client.Plan)

	subs, err := s.Subscriptions().ListByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestWithinTransactionNested(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := s.Users().Create(ctx, &domain.User{Email: "a@b.c", Role: domain.RoleClient})
			return err
		})
	})
	require.NoError(t, err)

	_, err = s.Users().GetByEmail(ctx, "A@B.C")
	assert.NoError(t, err)
}

func TestUserEmailConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Users().Create(ctx, &domain.User{Email: "x@y.z", Role: domain.RoleClient})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, &domain.User{Email: "X@y.z", Role: domain.RoleTrainer})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestSubscriptionQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	subs := s.Subscriptions()
	clientID, _ := s.Clients().Create(ctx, &domain.Client{Names: "Luis"})
	now := time.Now().UTC()

	oldID, _ := subs.Create(ctx, &domain.Subscription{ClientID: clientID, Status: domain.SubscriptionActive,
		StartDate: now.Add(-40 * 24 * time.Hour), EndDate: now.Add(-10 * 24 * time.Hour), Amount: 29.99})
	_, _ = subs.Create(ctx, &domain.Subscription{ClientID: clientID, Status: domain.SubscriptionCanceled,
		StartDate: now.Add(-80 * 24 * time.Hour), EndDate: now.Add(-50 * 24 * time.Hour)})

	expired, err := subs.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, oldID, expired[0].ID)

	totals, err := subs.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.ByStatus[domain.SubscriptionActive])
	assert.InDelta(t, 29.99, totals.ActiveRevenue, 0.001)

	require.NoError(t, subs.MarkExpired(ctx, oldID, now))
	assert.ErrorIs(t, subs.MarkExpired(ctx, oldID, now), repository.ErrNotFound)

	_, err = subs.FindActiveByClient(ctx, clientID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressListOrderAndCutoff(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	clientID, _ := s.Clients().Create(ctx, &domain.Client{Names: "Eva"})
	now := time.Now().UTC()
	for _, months := range []int{7, 1, 4} {
		_, err := s.Progress().Create(ctx, &domain.ProgressRecord{ClientID: clientID, Date: now.AddDate(0, -months, 0)})
		require.NoError(t, err)
	}

	all, err := s.Progress().ListByClient(ctx, clientID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.After(all[1].Date))
	assert.True(t, all[1].Date.After(all[2].Date))

	since := now.AddDate(0, -3, 0)
	recent, err := s.Progress().ListByClient(ctx, clientID, &since)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
