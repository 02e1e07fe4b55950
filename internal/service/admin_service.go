package service

import (
	"context"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is the admin overview.
type DashboardStats struct {
	UsersByRole          map[domain.Role]int64               `json:"usersByRole"`
	ClientsByPlan        map[domain.PlanTier]int64           `json:"clientsByPlan"`
	SubscriptionsByState map[domain.SubscriptionStatus]int64 `json:"subscriptionsByStatus"`
	ActiveRevenue        float64                             `json:"activeRevenue"`
	Routines             int                                 `json:"routines"`
	Exercises            int                                 `json:"exercises"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
	// ToggleActive flips the active flag of an account. Admins cannot disable themselves.
	ToggleActive(ctx context.Context, actorID, userID primitive.ObjectID) (*domain.User, error)
}

type adminService struct {
	users     repository.UserRepository
	clients   repository.ClientRepository
	subs      repository.SubscriptionRepository
	routines  repository.RoutineRepository
	exercises repository.ExerciseRepository
}

func NewAdminService(
	users repository.UserRepository,
	clients repository.ClientRepository,
	subs repository.SubscriptionRepository,
	routines repository.RoutineRepository,
	exercises repository.ExerciseRepository,
) AdminService {
	return &adminService{
		users:     users,
		clients:   clients,
		subs:      subs,
		routines:  routines,
		exercises: exercises,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.UsersByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ClientsByPlan, err = s.clients.CountByPlan(gctx)
		return err
	})
	g.Go(func() error {
		totals, err := s.subs.Totals(gctx)
		if err != nil {
			return err
		}
		stats.SubscriptionsByState = totals.ByStatus
		stats.ActiveRevenue = totals.ActiveRevenue
		return nil
	})
	g.Go(func() error {
		routines, err := s.routines.List(gctx, repository.RoutineFilter{})
		stats.Routines = len(routines)
		return err
	})
	g.Go(func() error {
		exercises, err := s.exercises.List(gctx, repository.ExerciseFilter{})
		stats.Exercises = len(exercises)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, invalidInput("unknown role %q", *filter.Role)
	}
	return s.users.List(ctx, filter)
}

func (s *adminService) ToggleActive(ctx context.Context, actorID, userID primitive.ObjectID) (*domain.User, error) {
	if actorID == userID {
		return nil, invalidInput("you cannot change the status of your own account")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	user.Active = !user.Active
	if err := s.users.SetActive(ctx, userID, user.Active); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	log.WithFields(log.Fields{"user": userID.Hex(), "active": user.Active, "by": actorID.Hex()}).Info("account status changed")
	return user, nil
}
