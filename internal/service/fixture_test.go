package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	plans *catalog.Catalog
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		plans: catalog.Default(),
		now:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) clock() time.Time {
	return f.now
}

func (f *fixture) client(t *testing.T, plan domain.PlanTier) *domain.Client {
	t.Helper()
	user := &domain.User{Email: primitive.NewObjectID().Hex() + "@example.com", Role: domain.RoleClient, Active: true}
	_, err := f.store.Users().Create(f.ctx, user)
	require.NoError(t, err)
	client := &domain.Client{UserID: user.ID, Names: "Lucia", LastNames: "Rojas", Plan: plan}
	_, err = f.store.Clients().Create(f.ctx, client)
	require.NoError(t, err)
	return client
}

func (f *fixture) trainer(t *testing.T) *domain.Trainer {
	t.Helper()
	user := &domain.User{Email: primitive.NewObjectID().Hex() + "@example.com", Role: domain.RoleTrainer, Active: true}
	_, err := f.store.Users().Create(f.ctx, user)
	require.NoError(t, err)
	trainer := &domain.Trainer{UserID: user.ID, Names: "Marco"}
	_, err = f.store.Trainers().Create(f.ctx, trainer)
	require.NoError(t, err)
	return trainer
}

func (f *fixture) routine(t *testing.T, trainerID primitive.ObjectID, generic bool) *domain.Routine {
	t.Helper()
	routine := &domain.Routine{TrainerID: trainerID, Name: "Full body", IsGeneric: generic}
	_, err := f.store.Routines().Create(f.ctx, routine)
	require.NoError(t, err)
	return routine
}

func (f *fixture) exercise(t *testing.T, name string) *domain.Exercise {
	t.Helper()
	exercise := &domain.Exercise{Name: name, MuscleGroup: "Legs"}
	_, err := f.store.Exercises().Create(f.ctx, exercise)
	require.NoError(t, err)
	return exercise
}

func (f *fixture) activeAssignment(t *testing.T, client *domain.Client, routine *domain.Routine) *domain.Assignment {
	t.Helper()
	a := &domain.Assignment{
		RoutineID: routine.ID,
		ClientID:  client.ID,
		TrainerID: routine.TrainerID,
		Active:    true,
		StartDate: f.now.AddDate(0, 0, -7),
	}
	_, err := f.store.Assignments().Create(f.ctx, a)
	require.NoError(t, err)
	return a
}

func (f *fixture) subscription(t *testing.T, client *domain.Client, status domain.SubscriptionStatus, end time.Time) *domain.Subscription {
	t.Helper()
	sub := &domain.Subscription{
		ClientID:  client.ID,
		Plan:      domain.PlanPremium,
		Status:    status,
		StartDate: end.Add(-catalog.DefaultTerm),
		EndDate:   end,
		Amount:    29.99,
	}
	_, err := f.store.Subscriptions().Create(f.ctx, sub)
	require.NoError(t, err)
	return sub
}

func (f *fixture) reloadClient(t *testing.T, id primitive.ObjectID) *domain.Client {
	t.Helper()
	c, err := f.store.Clients().GetByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) subscriptions(clients repository.ClientRepository, subs repository.SubscriptionRepository, assignments repository.AssignmentRepository, gateway PaymentGateway) *subscriptionService {
	svc := NewSubscriptionService(f.store, clients, subs, assignments, f.store.Routines(), f.plans, gateway).(*subscriptionService)
	svc.now = f.clock
	return svc
}

func (f *fixture) defaultSubscriptions() *subscriptionService {
	return f.subscriptions(f.store.Clients(), f.store.Subscriptions(), f.store.Assignments(), nil)
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(v float64) *float64 {
	return &v
}

// Failure injection wrappers.

type failingSubscriptions struct {
	repository.SubscriptionRepository
	createErr error
	markErr   map[primitive.ObjectID]error
}

func (r *failingSubscriptions) Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	return r.SubscriptionRepository.Create(ctx, sub)
}

func (r *failingSubscriptions) MarkExpired(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if err := r.markErr[id]; err != nil {
		return err
	}
	return r.SubscriptionRepository.MarkExpired(ctx, id, at)
}

type failingAssignments struct {
	repository.AssignmentRepository
	deactivateErr error
}

func (r *failingAssignments) DeactivateByIDs(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	if r.deactivateErr != nil {
		return 0, r.deactivateErr
	}
	return r.AssignmentRepository.DeactivateByIDs(ctx, ids, at)
}

type recordingGateway struct {
	calls int
	err   error
}

func (g *recordingGateway) Charge(ctx context.Context, clientID primitive.ObjectID, tier catalog.Tier, sim PaymentSimulation) (*PaymentReceipt, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return NewSimulatedGateway().Charge(ctx, clientID, tier, sim)
}
