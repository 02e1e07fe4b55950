package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNoActiveRoutine = errors.New("client has no active routine")

// AssignInput describes a new routine assignment. A zero TrainerID falls back
// to the routine's author; a nil StartDate means now.
type AssignInput struct {
	RoutineID primitive.ObjectID
	ClientID  primitive.ObjectID
	TrainerID primitive.ObjectID
	StartDate *time.Time
	EndDate   *time.Time
}

// ActiveRoutine is what a client is currently following.
type ActiveRoutine struct {
	Assignment *domain.Assignment
	Routine    *domain.Routine
	Exercises  []RoutineExerciseDetail
}

type AssignmentService interface {
	// Assign deactivates whatever the client was following and creates the new active assignment.
	Assign(ctx context.Context, in AssignInput) (*domain.Assignment, error)
	// Deactivate is idempotent; deactivating an inactive assignment returns it unchanged.
	Deactivate(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error)
	ActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*ActiveRoutine, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	routines    repository.RoutineRepository
	entries     repository.RoutineExerciseRepository
	exercises   repository.ExerciseRepository
	clients     repository.ClientRepository
	trainers    repository.TrainerRepository
	now         func() time.Time
}

func NewAssignmentService(
	assignments repository.AssignmentRepository,
	routines repository.RoutineRepository,
	entries repository.RoutineExerciseRepository,
	exercises repository.ExerciseRepository,
	clients repository.ClientRepository,
	trainers repository.TrainerRepository,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		routines:    routines,
		entries:     entries,
		exercises:   exercises,
		clients:     clients,
		trainers:    trainers,
		now:         time.Now,
	}
}

func (s *assignmentService) Assign(ctx context.Context, in AssignInput) (*domain.Assignment, error) {
	// 1. Validate references
	if in.RoutineID.IsZero() || in.ClientID.IsZero() {
		return nil, invalidInput("routineId and clientId are required")
	}
	routine, err := s.routines.GetByID(ctx, in.RoutineID)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	trainerID := in.TrainerID
	if trainerID.IsZero() {
		trainerID = routine.TrainerID
	}
	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}

	now := s.now().UTC()
	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}
	if in.EndDate != nil && in.EndDate.Before(start) {
		return nil, invalidInput("endDate must not be before startDate")
	}

	// 2. At most one active assignment per client
	replaced, err := s.assignments.DeactivateActiveByClient(ctx, in.ClientID, now)
	if err != nil {
		return nil, fmt.Errorf("deactivate current assignments: %w", err)
	}

	// 3. Create the new one
	assignment := &domain.Assignment{
		RoutineID: in.RoutineID,
		ClientID:  in.ClientID,
		TrainerID: trainerID,
		Active:    true,
		StartDate: start,
		EndDate:   in.EndDate,
	}
	if _, err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"assignment": assignment.ID.Hex(),
		"client":     in.ClientID.Hex(),
		"routine":    in.RoutineID.Hex(),
		"replaced":   replaced,
	}).Info("routine assigned")
	return assignment, nil
}

func (s *assignmentService) Deactivate(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignment.Active {
		return assignment, nil
	}
	now := s.now().UTC()
	if _, err := s.assignments.DeactivateByIDs(ctx, []primitive.ObjectID{id}, now); err != nil {
		return nil, err
	}
	assignment.Active = false
	assignment.EndDate = &now
	assignment.UpdatedAt = now
	return assignment, nil
}

func (s *assignmentService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	return assignment, nil
}

func (s *assignmentService) ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return s.assignments.ListByClient(ctx, clientID, false)
}

func (s *assignmentService) ActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*ActiveRoutine, error) {
	assignment, err := s.assignments.FindActiveByClient(ctx, clientID)
	if err != nil {
		return nil, notFound(err, ErrNoActiveRoutine)
	}
	routine, err := s.routines.GetByID(ctx, assignment.RoutineID)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	exercises, err := loadRoutineExercises(ctx, s.entries, s.exercises, routine.ID)
	if err != nil {
		return nil, err
	}
	return &ActiveRoutine{Assignment: assignment, Routine: routine, Exercises: exercises}, nil
}
