package service

import (
	"errors"
	"fmt"

	"alcyxob/bodytrack/internal/repository"
)

// Errors shared by several services. Service-specific errors live next to their service.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrUserNotFound            = errors.New("user not found")
	ErrClientNotFound          = errors.New("client not found")
	ErrTrainerNotFound         = errors.New("trainer not found")
	ErrExerciseNotFound        = errors.New("exercise not found")
	ErrRoutineNotFound         = errors.New("routine not found")
	ErrRoutineExerciseNotFound = errors.New("routine exercise not found")
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrProgressNotFound        = errors.New("progress record not found")
	ErrPostNotFound            = errors.New("post not found")
	ErrCommentNotFound         = errors.New("comment not found")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound swaps repository.ErrNotFound for the service-level sentinel and passes other errors through.
func notFound(err error, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
