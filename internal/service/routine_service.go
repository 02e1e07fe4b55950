package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineInput carries the editable fields of a routine.
type RoutineInput struct {
	Name          string
	Description   string
	Goal          string
	DurationWeeks int
	IsGeneric     bool
}

// RoutineExerciseInput places one exercise inside a routine.
type RoutineExerciseInput struct {
	ExerciseID  primitive.ObjectID
	Day         int
	Order       int
	Sets        int
	Reps        string
	RestSeconds int
	Notes       string
}

// RoutineExerciseDetail pairs a routine entry with its library exercise.
// Exercise is nil when the exercise was removed from the library.
type RoutineExerciseDetail struct {
	Entry    domain.RoutineExercise
	Exercise *domain.Exercise
}

type RoutineDetail struct {
	Routine     *domain.Routine
	Exercises   []RoutineExerciseDetail
	Assignments []domain.Assignment
}

type RoutineService interface {
	List(ctx context.Context, filter repository.RoutineFilter) ([]domain.Routine, error)
	Get(ctx context.Context, id primitive.ObjectID) (*RoutineDetail, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, in RoutineInput, entries []RoutineExerciseInput) (*RoutineDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, in RoutineInput) (*domain.Routine, error)
	// Delete removes the routine with its entries and assignments.
	Delete(ctx context.Context, id primitive.ObjectID) error

	AddExercise(ctx context.Context, routineID primitive.ObjectID, in RoutineExerciseInput) (*domain.RoutineExercise, error)
	GetEntry(ctx context.Context, entryID primitive.ObjectID) (*domain.RoutineExercise, error)
	UpdateExercise(ctx context.Context, entryID primitive.ObjectID, in RoutineExerciseInput) (*domain.RoutineExercise, error)
	RemoveExercise(ctx context.Context, entryID primitive.ObjectID) error
}

type routineService struct {
	routines    repository.RoutineRepository
	entries     repository.RoutineExerciseRepository
	exercises   repository.ExerciseRepository
	trainers    repository.TrainerRepository
	assignments repository.AssignmentRepository
}

func NewRoutineService(
	routines repository.RoutineRepository,
	entries repository.RoutineExerciseRepository,
	exercises repository.ExerciseRepository,
	trainers repository.TrainerRepository,
	assignments repository.AssignmentRepository,
) RoutineService {
	return &routineService{
		routines:    routines,
		entries:     entries,
		exercises:   exercises,
		trainers:    trainers,
		assignments: assignments,
	}
}

func (s *routineService) List(ctx context.Context, filter repository.RoutineFilter) ([]domain.Routine, error) {
	return s.routines.List(ctx, filter)
}

func (s *routineService) Get(ctx context.Context, id primitive.ObjectID) (*RoutineDetail, error) {
	routine, err := s.routines.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	details, err := loadRoutineExercises(ctx, s.entries, s.exercises, id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByRoutine(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoutineDetail{Routine: routine, Exercises: details, Assignments: assignments}, nil
}

func (s *routineService) Create(ctx context.Context, trainerID primitive.ObjectID, in RoutineInput, entries []RoutineExerciseInput) (*RoutineDetail, error) {
	if err := validateRoutine(in); err != nil {
		return nil, err
	}
	if _, err := s.trainers.GetByID(ctx, trainerID); err != nil {
		return nil, notFound(err, ErrTrainerNotFound)
	}
	// Validate every entry up front so a bad one does not leave a half-built routine.
	for _, e := range entries {
		if err := s.validateEntry(ctx, e); err != nil {
			return nil, err
		}
	}

	routine := &domain.Routine{
		TrainerID:     trainerID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Goal:          in.Goal,
		DurationWeeks: in.DurationWeeks,
		IsGeneric:     in.IsGeneric,
	}
	if _, err := s.routines.Create(ctx, routine); err != nil {
		return nil, err
	}
	for _, e := range entries {
		entry := newEntry(routine.ID, e)
		if _, err := s.entries.Create(ctx, entry); err != nil {
			return nil, fmt.Errorf("add exercise to routine %s: %w", routine.ID.Hex(), err)
		}
	}

	log.WithFields(log.Fields{"routine": routine.ID.Hex(), "trainer": trainerID.Hex(), "exercises": len(entries)}).Info("routine created")
	return s.Get(ctx, routine.ID)
}

func (s *routineService) Update(ctx context.Context, id primitive.ObjectID, in RoutineInput) (*domain.Routine, error) {
	if err := validateRoutine(in); err != nil {
		return nil, err
	}
	routine, err := s.routines.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	routine.Name = strings.TrimSpace(in.Name)
	routine.Description = in.Description
	routine.Goal = in.Goal
	routine.DurationWeeks = in.DurationWeeks
	routine.IsGeneric = in.IsGeneric
	if err := s.routines.Update(ctx, routine); err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	return routine, nil
}

func (s *routineService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.routines.GetByID(ctx, id); err != nil {
		return notFound(err, ErrRoutineNotFound)
	}
	if _, err := s.entries.DeleteByRoutine(ctx, id); err != nil {
		return fmt.Errorf("delete routine exercises: %w", err)
	}
	removed, err := s.assignments.DeleteByRoutine(ctx, id)
	if err != nil {
		return fmt.Errorf("delete routine assignments: %w", err)
	}
	if err := s.routines.Delete(ctx, id); err != nil {
		return notFound(err, ErrRoutineNotFound)
	}
	log.WithFields(log.Fields{"routine": id.Hex(), "assignments": removed}).Info("routine deleted")
	return nil
}

func (s *routineService) AddExercise(ctx context.Context, routineID primitive.ObjectID, in RoutineExerciseInput) (*domain.RoutineExercise, error) {
	if _, err := s.routines.GetByID(ctx, routineID); err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	if err := s.validateEntry(ctx, in); err != nil {
		return nil, err
	}
	entry := newEntry(routineID, in)
	if _, err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *routineService) GetEntry(ctx context.Context, entryID primitive.ObjectID) (*domain.RoutineExercise, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, notFound(err, ErrRoutineExerciseNotFound)
	}
	return entry, nil
}

func (s *routineService) UpdateExercise(ctx context.Context, entryID primitive.ObjectID, in RoutineExerciseInput) (*domain.RoutineExercise, error) {
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.validateEntry(ctx, in); err != nil {
		return nil, err
	}
	updated := newEntry(entry.RoutineID, in)
	updated.ID = entry.ID
	if err := s.entries.Update(ctx, updated); err != nil {
		return nil, notFound(err, ErrRoutineExerciseNotFound)
	}
	return updated, nil
}

func (s *routineService) RemoveExercise(ctx context.Context, entryID primitive.ObjectID) error {
	return notFound(s.entries.Delete(ctx, entryID), ErrRoutineExerciseNotFound)
}

func (s *routineService) validateEntry(ctx context.Context, in RoutineExerciseInput) error {
	if in.ExerciseID.IsZero() {
		return invalidInput("exerciseId is required")
	}
	if in.Day < 1 || in.Day > 7 {
		return invalidInput("day must be between 1 and 7")
	}
	if in.Sets < 1 {
		return invalidInput("sets must be at least 1")
	}
	if strings.TrimSpace(in.Reps) == "" {
		return invalidInput("reps is required")
	}
	if in.RestSeconds < 0 {
		return invalidInput("restSeconds cannot be negative")
	}
	if _, err := s.exercises.GetByID(ctx, in.ExerciseID); err != nil {
		return notFound(err, ErrExerciseNotFound)
	}
	return nil
}

func validateRoutine(in RoutineInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("routine name is required")
	}
	if in.DurationWeeks < 0 {
		return invalidInput("durationWeeks cannot be negative")
	}
	return nil
}

func newEntry(routineID primitive.ObjectID, in RoutineExerciseInput) *domain.RoutineExercise {
	return &domain.RoutineExercise{
		RoutineID:   routineID,
		ExerciseID:  in.ExerciseID,
		Day:         in.Day,
		Order:       in.Order,
		Sets:        in.Sets,
		Reps:        strings.TrimSpace(in.Reps),
		RestSeconds: in.RestSeconds,
		Notes:       in.Notes,
	}
}

// loadRoutineExercises joins a routine's entries with the exercise library.
func loadRoutineExercises(ctx context.Context, entries repository.RoutineExerciseRepository, exercises repository.ExerciseRepository, routineID primitive.ObjectID) ([]RoutineExerciseDetail, error) {
	list, err := entries.ListByRoutine(ctx, routineID)
	if err != nil {
		return nil, err
	}
	cache := make(map[primitive.ObjectID]*domain.Exercise)
	out := make([]RoutineExerciseDetail, 0, len(list))
	for _, e := range list {
		ex, seen := cache[e.ExerciseID]
		if !seen {
			ex, err = exercises.GetByID(ctx, e.ExerciseID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			cache[e.ExerciseID] = ex
		}
		out = append(out, RoutineExerciseDetail{Entry: e, Exercise: ex})
	}
	return out, nil
}
