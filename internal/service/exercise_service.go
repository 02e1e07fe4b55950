package service

import (
	"context"
	"strings"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels accepted for library exercises. Empty is allowed.
var exerciseDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

type ExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Equipment   string
	Difficulty  string
	VideoURL    string
	ImageURL    string
}

type ExerciseService interface {
	List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	MuscleGroups(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	Create(ctx context.Context, createdBy primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type exerciseService struct {
	exercises repository.ExerciseRepository
}

func NewExerciseService(exercises repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exercises: exercises}
}

func (s *exerciseService) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exercises.List(ctx, filter)
}

func (s *exerciseService) MuscleGroups(ctx context.Context) ([]string, error) {
	return s.exercises.MuscleGroups(ctx)
}

func (s *exerciseService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, createdBy primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	in, err := normalizeExercise(in)
	if err != nil {
		return nil, err
	}
	exercise := &domain.Exercise{CreatedBy: createdBy}
	applyExercise(exercise, in)
	if _, err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, id primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	in, err := normalizeExercise(in)
	if err != nil {
		return nil, err
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyExercise(exercise, in)
	if err := s.exercises.Update(ctx, exercise); err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return notFound(s.exercises.Delete(ctx, id), ErrExerciseNotFound)
}

func normalizeExercise(in ExerciseInput) (ExerciseInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, invalidInput("exercise name is required")
	}
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Difficulty != "" && !exerciseDifficulties[in.Difficulty] {
		return in, invalidInput("difficulty must be beginner, intermediate or advanced")
	}
	in.MuscleGroup = strings.TrimSpace(in.MuscleGroup)
	in.Equipment = strings.TrimSpace(in.Equipment)
	return in, nil
}

func applyExercise(e *domain.Exercise, in ExerciseInput) {
	e.Name = in.Name
	e.Description = in.Description
	e.MuscleGroup = in.MuscleGroup
	e.Equipment = in.Equipment
	e.Difficulty = in.Difficulty
	e.VideoURL = in.VideoURL
	e.ImageURL = in.ImageURL
}
