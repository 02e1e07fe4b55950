package service

import (
	"testing"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fixture) routines() RoutineService {
	return NewRoutineService(f.store.Routines(), f.store.RoutineExercises(), f.store.Exercises(), f.store.Trainers(), f.store.Assignments())
}

func TestRoutineCreateWithExercises(t *testing.T) {
	f := newFixture(t)
	svc := f.routines()
	trainer := f.trainer(t)
	press := f.exercise(t, "Bench press")

	detail, err := svc.Create(f.ctx, trainer.ID, RoutineInput{Name: "  Push day ", IsGeneric: true}, []RoutineExerciseInput{
		{ExerciseID: press.ID, Day: 1, Order: 1, Sets: 4, Reps: "8-12"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Push day", detail.Routine.Name)
	assert.True(t, detail.Routine.IsGeneric)
	require.Len(t, detail.Exercises, 1)
	assert.Equal(t, "8-12", detail.Exercises[0].Entry.Reps)
	assert.Equal(t, press.ID, detail.Exercises[0].Exercise.ID)

	generic := true
	list, err := svc.List(f.ctx, repository.RoutineFilter{Generic: &generic})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRoutineCreateValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.routines()
	trainer := f.trainer(t)
	press := f.exercise(t, "Bench press")

	_, err := svc.Create(f.ctx, trainer.ID, RoutineInput{Name: " "}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(f.ctx, primitive.NewObjectID(), RoutineInput{Name: "x"}, nil)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	bad := []RoutineExerciseInput{
		{ExerciseID: press.ID, Day: 8, Sets: 3, Reps: "10"},
		{ExerciseID: press.ID, Day: 1, Sets: 0, Reps: "10"},
		{ExerciseID: press.ID, Day: 1, Sets: 3},
		{ExerciseID: primitive.NewObjectID(), Day: 1, Sets: 3, Reps: "10"},
	}
	for _, entry := range bad {
		_, err := svc.Create(f.ctx, trainer.ID, RoutineInput{Name: "x"}, []RoutineExerciseInput{entry})
		assert.Error(t, err)
	}

	// Rejected entries never leave a routine behind.
	list, err := svc.List(f.ctx, repository.RoutineFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoutineDeleteCascades(t *testing.T) {
	f := newFixture(t)
	svc := f.routines()
	trainer := f.trainer(t)
	press := f.exercise(t, "Bench press")
	detail, err := svc.Create(f.ctx, trainer.ID, RoutineInput{Name: "Push"}, []RoutineExerciseInput{
		{ExerciseID: press.ID, Day: 1, Sets: 3, Reps: "10"},
	})
	require.NoError(t, err)
	client := f.client(t, domain.PlanPremium)
	f.activeAssignment(t, client, detail.Routine)

	require.NoError(t, svc.Delete(f.ctx, detail.Routine.ID))

	_, err = svc.Get(f.ctx, detail.Routine.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
	entries, err := f.store.RoutineExercises().ListByRoutine(f.ctx, detail.Routine.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assignments, err := f.store.Assignments().ListByClient(f.ctx, client.ID, false)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestRoutineEntryLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.routines()
	routine := f.routine(t, f.trainer(t).ID, false)
	squat := f.exercise(t, "Squat")

	entry, err := svc.AddExercise(f.ctx, routine.ID, RoutineExerciseInput{ExerciseID: squat.ID, Day: 3, Sets: 5, Reps: "5"})
	require.NoError(t, err)

	updated, err := svc.UpdateExercise(f.ctx, entry.ID, RoutineExerciseInput{ExerciseID: squat.ID, Day: 4, Sets: 3, Reps: "8", RestSeconds: 90})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Day)
	assert.Equal(t, routine.ID, updated.RoutineID)

	require.NoError(t, svc.RemoveExercise(f.ctx, entry.ID))
	_, err = svc.GetEntry(f.ctx, entry.ID)
	assert.ErrorIs(t, err, ErrRoutineExerciseNotFound)
	assert.ErrorIs(t, svc.RemoveExercise(f.ctx, entry.ID), ErrRoutineExerciseNotFound)
}
