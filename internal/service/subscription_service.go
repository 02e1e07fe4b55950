package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/metrics"
	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidPlan                 = errors.New("invalid plan")
	ErrDuplicateActiveSubscription = errors.New("client already has an active subscription to this plan")
	ErrNothingToCancel             = errors.New("no active paid subscription to cancel")
)

// PurchaseResult is returned by a successful purchase.
type PurchaseResult struct {
	Client       *domain.Client
	Subscription *domain.Subscription
	Tier         catalog.Tier
}

// CancelResult is returned by a successful cancellation.
type CancelResult struct {
	Client                 *domain.Client
	Subscription           *domain.Subscription
	DeactivatedAssignments int64
}

// CurrentPlan describes the tier a client is on right now.
// Subscription is nil for clients on the free tier without a paid row.
type CurrentPlan struct {
	Tier         catalog.Tier
	Subscription *domain.Subscription
	DaysLeft     int
}

type SubscriptionStats struct {
	ByStatus      map[domain.SubscriptionStatus]int64
	ClientsByPlan map[domain.PlanTier]int64
	ActiveRevenue float64
}

type SubscriptionService interface {
	Plans() []catalog.Tier
	Purchase(ctx context.Context, clientID primitive.ObjectID, plan domain.PlanTier, sim PaymentSimulation) (*PurchaseResult, error)
	Cancel(ctx context.Context, clientID primitive.ObjectID) (*CancelResult, error)
	// SweepExpired expires every lapsed ACTIVA subscription and returns how many were processed.
	SweepExpired(ctx context.Context) (int, error)
	Current(ctx context.Context, clientID primitive.ObjectID) (*CurrentPlan, error)
	History(ctx context.Context, clientID primitive.ObjectID) ([]domain.Subscription, error)
	Stats(ctx context.Context) (*SubscriptionStats, error)
}

type subscriptionService struct {
	tx          repository.Transactor
	clients     repository.ClientRepository
	subs        repository.SubscriptionRepository
	assignments repository.AssignmentRepository
	routines    repository.RoutineRepository
	plans       *catalog.Catalog
	payments    PaymentGateway
	now         func() time.Time
}

func NewSubscriptionService(
	tx repository.Transactor,
	clients repository.ClientRepository,
	subs repository.SubscriptionRepository,
	assignments repository.AssignmentRepository,
	routines repository.RoutineRepository,
	plans *catalog.Catalog,
	payments PaymentGateway,
) SubscriptionService {
	if payments == nil {
		payments = NewSimulatedGateway()
	}
	return &subscriptionService{
		tx:          tx,
		clients:     clients,
		subs:        subs,
		assignments: assignments,
		routines:    routines,
		plans:       plans,
		payments:    payments,
		now:         time.Now,
	}
}

func (s *subscriptionService) Plans() []catalog.Tier {
	return s.plans.All()
}

// Purchase charges the client and moves them onto a paid tier. Nothing is
// written when the charge fails; the plan change and the new subscription row
// commit together.
func (s *subscriptionService) Purchase(ctx context.Context, clientID primitive.ObjectID, plan domain.PlanTier, sim PaymentSimulation) (*PurchaseResult, error) {
	// 1. Only paid tiers can be bought
	tier, ok := s.plans.Lookup(plan)
	if !ok || tier.IsFree() {
		metrics.SubscriptionPurchases.WithLabelValues(string(plan), metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}

	// 2. Reject a second purchase of a tier that is still running
	now := s.now().UTC()
	active, err := s.subs.FindActiveByClient(ctx, clientID)
	switch {
	case err == nil:
		if domain.NormalizePlanTier(string(active.Plan)) == tier.Code && active.ActiveAt(now) {
			metrics.SubscriptionPurchases.WithLabelValues(string(tier.Code), metrics.OutcomeDuplicate).Inc()
			return nil, ErrDuplicateActiveSubscription
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	// 3. Charge before touching any state
	receipt, err := s.payments.Charge(ctx, clientID, tier, sim)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ErrPaymentRejected) {
			outcome = metrics.OutcomeRejected
		}
		metrics.SubscriptionPurchases.WithLabelValues(string(tier.Code), outcome).Inc()
		log.WithFields(log.Fields{"client": clientID.Hex(), "plan": tier.Code}).WithError(err).Info("subscription payment failed")
		return nil, err
	}

	// 4. Swap subscriptions and plan in one unit of work
	var sub *domain.Subscription
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.subs.CancelActiveByClient(ctx, clientID, now); err != nil {
			return fmt.Errorf("cancel previous subscriptions: %w", err)
		}
		if err := s.clients.UpdatePlan(ctx, clientID, tier.Code); err != nil {
			return fmt.Errorf("update client plan: %w", err)
		}
		sub = &domain.Subscription{
			ClientID:      clientID,
			Plan:          tier.Code,
			Status:        domain.SubscriptionActive,
			StartDate:     now,
			EndDate:       now.Add(s.plans.Term()),
			Amount:        tier.Price,
			PaymentMethod: receipt.Method,
			PaymentRef:    receipt.Reference,
		}
		if _, err := s.subs.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.SubscriptionPurchases.WithLabelValues(string(tier.Code), metrics.OutcomeError).Inc()
		log.WithFields(log.Fields{"client": clientID.Hex(), "plan": tier.Code, "paymentRef": receipt.Reference}).
			WithError(err).Error("subscription purchase rolled back after successful charge")
		return nil, err
	}

	client.Plan = tier.Code
	metrics.SubscriptionPurchases.WithLabelValues(string(tier.Code), metrics.OutcomeSuccess).Inc()
	log.WithFields(log.Fields{
		"client":       clientID.Hex(),
		"plan":         tier.Code,
		"subscription": sub.ID.Hex(),
		"endDate":      sub.EndDate,
	}).Info("subscription purchased")

	return &PurchaseResult{Client: client, Subscription: sub, Tier: tier}, nil
}

// Cancel returns the client to the free tier and switches off the
// personalized routines they were following. Generic assignments stay.
func (s *subscriptionService) Cancel(ctx context.Context, clientID primitive.ObjectID) (*CancelResult, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	if s.plans.IsFree(client.Plan) {
		return nil, ErrNothingToCancel
	}
	active, err := s.subs.FindActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNothingToCancel
		}
		return nil, err
	}

	now := s.now().UTC()
	free := s.plans.Free().Code
	var deactivated int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.clients.UpdatePlan(ctx, clientID, free); err != nil {
			return fmt.Errorf("downgrade client plan: %w", err)
		}
		if _, err := s.subs.CancelActiveByClient(ctx, clientID, now); err != nil {
			return fmt.Errorf("cancel subscription: %w", err)
		}
		ids, err := s.personalizedAssignments(ctx, clientID)
		if err != nil {
			return err
		}
		deactivated, err = s.assignments.DeactivateByIDs(ctx, ids, now)
		if err != nil {
			return fmt.Errorf("deactivate personalized assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		log.WithField("client", clientID.Hex()).WithError(err).Error("subscription cancellation rolled back")
		return nil, err
	}

	client.Plan = free
	active.Status = domain.SubscriptionCanceled
	active.CanceledAt = &now
	active.UpdatedAt = now
	metrics.SubscriptionCancellations.Inc()
	log.WithFields(log.Fields{
		"client":       clientID.Hex(),
		"subscription": active.ID.Hex(),
		"deactivated":  deactivated,
	}).Info("subscription cancelled")

	return &CancelResult{Client: client, Subscription: active, DeactivatedAssignments: deactivated}, nil
}

// personalizedAssignments lists the client's active assignments whose routine is not generic.
// An assignment pointing at a routine that no longer exists counts as personalized.
func (s *subscriptionService) personalizedAssignments(ctx context.Context, clientID primitive.ObjectID) ([]primitive.ObjectID, error) {
	active, err := s.assignments.ListByClient(ctx, clientID, true)
	if err != nil {
		return nil, fmt.Errorf("list active assignments: %w", err)
	}
	if len(active) == 0 {
		return nil, nil
	}

	routineIDs := make([]primitive.ObjectID, 0, len(active))
	seen := make(map[primitive.ObjectID]bool, len(active))
	for _, a := range active {
		if !seen[a.RoutineID] {
			seen[a.RoutineID] = true
			routineIDs = append(routineIDs, a.RoutineID)
		}
	}
	routines, err := s.routines.GetByIDs(ctx, routineIDs)
	if err != nil {
		return nil, fmt.Errorf("load assigned routines: %w", err)
	}
	generic := make(map[primitive.ObjectID]bool, len(routines))
	for _, r := range routines {
		generic[r.ID] = r.IsGeneric
	}

	var ids []primitive.ObjectID
	for _, a := range active {
		if !generic[a.RoutineID] {
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}

func (s *subscriptionService) SweepExpired(ctx context.Context) (int, error) {
	now := s.now().UTC()
	expired, err := s.subs.ListExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired subscriptions: %w", err)
	}

	free := s.plans.Free().Code
	processed := 0
	for _, sub := range expired {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		entry := log.WithFields(log.Fields{"subscription": sub.ID.Hex(), "client": sub.ClientID.Hex()})

		if err := s.subs.MarkExpired(ctx, sub.ID, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Cancelled or expired by someone else since ListExpired.
				entry.Debug("subscription no longer active, skipping")
				continue
			}
			metrics.SweepFailures.Inc()
			entry.WithError(err).Warn("failed to expire subscription")
			continue
		}
		if err := s.clients.UpdatePlan(ctx, sub.ClientID, free); err != nil {
			metrics.SweepFailures.Inc()
			entry.WithError(err).Warn("subscription expired but client plan was not downgraded")
			continue
		}
		processed++
		metrics.SubscriptionsExpired.Inc()
	}

	log.WithFields(log.Fields{"found": len(expired), "processed": processed}).Info("subscription sweep finished")
	return processed, nil
}

func (s *subscriptionService) Current(ctx context.Context, clientID primitive.ObjectID) (*CurrentPlan, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	tier, ok := s.plans.Lookup(client.Plan)
	if !ok {
		tier = s.plans.Free()
	}
	current := &CurrentPlan{Tier: tier}

	active, err := s.subs.FindActiveByClient(ctx, clientID)
	switch {
	case err == nil:
		current.Subscription = active
		current.DaysLeft = daysUntil(s.now(), active.EndDate)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return current, nil
}

func (s *subscriptionService) History(ctx context.Context, clientID primitive.ObjectID) ([]domain.Subscription, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return s.subs.ListByClient(ctx, clientID)
}

func (s *subscriptionService) Stats(ctx context.Context) (*SubscriptionStats, error) {
	totals, err := s.subs.Totals(ctx)
	if err != nil {
		return nil, err
	}
	byPlan, err := s.clients.CountByPlan(ctx)
	if err != nil {
		return nil, err
	}
	return &SubscriptionStats{
		ByStatus:      totals.ByStatus,
		ClientsByPlan: byPlan,
		ActiveRevenue: totals.ActiveRevenue,
	}, nil
}

// daysUntil rounds up to whole days and never goes below zero.
func daysUntil(now, end time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}
