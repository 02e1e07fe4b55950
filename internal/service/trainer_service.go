package service

import (
	"context"
	"strings"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type TrainerUpdate struct {
	Names          *string
	LastNames      *string
	Specialty      *string
	Certifications []string
	Phone          *string
	Bio            *string
}

type TrainerStats struct {
	Routines         int64 `json:"routines"`
	ActiveClients    int64 `json:"activeClients"`
	TotalAssignments int64 `json:"totalAssignments"`
}

type TrainerService interface {
	List(ctx context.Context) ([]domain.Trainer, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	Update(ctx context.Context, id primitive.ObjectID, in TrainerUpdate) (*domain.Trainer, error)
	// Clients lists the clients currently following one of the trainer's assignments.
	Clients(ctx context.Context, id primitive.ObjectID) ([]domain.Client, error)
	Stats(ctx context.Context, id primitive.ObjectID) (*TrainerStats, error)
}

type trainerService struct {
	trainers    repository.TrainerRepository
	clients     repository.ClientRepository
	routines    repository.RoutineRepository
	assignments repository.AssignmentRepository
}

func NewTrainerService(
	trainers repository.TrainerRepository,
	clients repository.ClientRepository,
	routines repository.RoutineRepository,
	assignments repository.AssignmentRepository,
) TrainerService {
	return &trainerService{
		trainers:    trainers,
		clients:     clients,
		routines:    routines,
		assignments: assignments,
	}
}

func (s *trainerService) List(ctx context.Context) ([]domain.Trainer, error) {
	return s.trainers.List(ctx)
}

func (s *trainerService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *trainerService) Update(ctx context.Context, id primitive.ObjectID, in TrainerUpdate) (*domain.Trainer, error) {
	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Names != nil {
		if strings.TrimSpace(*in.Names) == "" {
			return nil, invalidInput("names cannot be empty")
		}
		trainer.Names = strings.TrimSpace(*in.Names)
	}
	if in.LastNames != nil {
		trainer.LastNames = strings.TrimSpace(*in.LastNames)
	}
	if in.Specialty != nil {
		trainer.Specialty = *in.Specialty
	}
	if in.Certifications != nil {
		trainer.Certifications = in.Certifications
	}
	if in.Phone != nil {
		trainer.Phone = *in.Phone
	}
	if in.Bio != nil {
		trainer.Bio = *in.Bio
	}
	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	return trainer, nil
}

func (s *trainerService) Clients(ctx context.Context, id primitive.ObjectID) ([]domain.Client, error) {
	ids, err := s.activeClientIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Client{}, nil
	}
	return s.clients.GetByIDs(ctx, ids)
}

func (s *trainerService) activeClientIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	active, err := s.assignments.ListByTrainer(ctx, id, true)
	if err != nil {
		return nil, err
	}
	seen := make(map[primitive.ObjectID]bool, len(active))
	ids := make([]primitive.ObjectID, 0, len(active))
	for _, a := range active {
		if !seen[a.ClientID] {
			seen[a.ClientID] = true
			ids = append(ids, a.ClientID)
		}
	}
	return ids, nil
}

func (s *trainerService) Stats(ctx context.Context, id primitive.ObjectID) (*TrainerStats, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	stats := &TrainerStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.routines.CountByTrainer(gctx, id)
		stats.Routines = n
		return err
	})
	g.Go(func() error {
		n, err := s.assignments.CountByTrainer(gctx, id)
		stats.TotalAssignments = n
		return err
	})
	g.Go(func() error {
		ids, err := s.activeClientIDs(gctx, id)
		stats.ActiveClients = int64(len(ids))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
