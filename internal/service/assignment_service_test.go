package service

import (
	"testing"
	"time"

	"alcyxob/bodytrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fixture) assignments() *assignmentService {
	svc := NewAssignmentService(
		f.store.Assignments(), f.store.Routines(), f.store.RoutineExercises(),
		f.store.Exercises(), f.store.Clients(), f.store.Trainers(),
	).(*assignmentService)
	svc.now = f.clock
	return svc
}

func TestAssignKeepsOneActiveAssignment(t *testing.T) {
	f := newFixture(t)
	svc := f.assignments()
	trainer := f.trainer(t)
	client := f.client(t, domain.PlanPremium)
	first := f.routine(t, trainer.ID, false)
	second := f.routine(t, trainer.ID, true)

	a1, err := svc.Assign(f.ctx, AssignInput{RoutineID: first.ID, ClientID: client.ID})
	require.NoError(t, err)
	assert.True(t, a1.Active)
	assert.Equal(t, trainer.ID, a1.TrainerID, "trainer defaults to the routine author")

	f.now = f.now.Add(time.Hour)
	a2, err := svc.Assign(f.ctx, AssignInput{RoutineID: second.ID, ClientID: client.ID, TrainerID: trainer.ID})
	require.NoError(t, err)

	all, err := svc.ListForClient(f.ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	active := 0
	for _, a := range all {
		if a.Active {
			active++
			assert.Equal(t, a2.ID, a.ID)
		}
	}
	assert.Equal(t, 1, active)

	old, err := svc.Get(f.ctx, a1.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)
	require.NotNil(t, old.EndDate)
	assert.Equal(t, f.now, *old.EndDate)
}

func TestAssignValidatesReferences(t *testing.T) {
	f := newFixture(t)
	svc := f.assignments()
	trainer := f.trainer(t)
	client := f.client(t, domain.PlanFree)
	routine := f.routine(t, trainer.ID, true)

	_, err := svc.Assign(f.ctx, AssignInput{ClientID: client.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Assign(f.ctx, AssignInput{RoutineID: primitive.NewObjectID(), ClientID: client.ID})
	assert.ErrorIs(t, err, ErrRoutineNotFound)

	_, err = svc.Assign(f.ctx, AssignInput{RoutineID: routine.ID, ClientID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.Assign(f.ctx, AssignInput{RoutineID: routine.ID, ClientID: client.ID, TrainerID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	start := f.now.AddDate(0, 0, 7)
	end := f.now
	_, err = svc.Assign(f.ctx, AssignInput{RoutineID: routine.ID, ClientID: client.ID, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// None of the failures touched the client's assignments.
	list, err := svc.ListForClient(f.ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.assignments()
	client := f.client(t, domain.PlanFree)
	a := f.activeAssignment(t, client, f.routine(t, f.trainer(t).ID, true))

	got, err := svc.Deactivate(f.ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.EndDate)
	firstEnd := *got.EndDate

	f.now = f.now.Add(time.Hour)
	got, err = svc.Deactivate(f.ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, firstEnd, *got.EndDate)

	_, err = svc.Deactivate(f.ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestActiveForClient(t *testing.T) {
	f := newFixture(t)
	svc := f.assignments()
	client := f.client(t, domain.PlanFree)

	_, err := svc.ActiveForClient(f.ctx, client.ID)
	assert.ErrorIs(t, err, ErrNoActiveRoutine)

	routine := f.routine(t, f.trainer(t).ID, true)
	squat := f.exercise(t, "Squat")
	lunge := f.exercise(t, "Lunge")
	for _, e := range []domain.RoutineExercise{
		{RoutineID: routine.ID, ExerciseID: lunge.ID, Day: 2, Order: 1, Sets: 3, Reps: "12"},
		{RoutineID: routine.ID, ExerciseID: squat.ID, Day: 1, Order: 1, Sets: 5, Reps: "5"},
	} {
		entry := e
		_, err := f.store.RoutineExercises().Create(f.ctx, &entry)
		require.NoError(t, err)
	}
	_, err = svc.Assign(f.ctx, AssignInput{RoutineID: routine.ID, ClientID: client.ID})
	require.NoError(t, err)

	active, err := svc.ActiveForClient(f.ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, routine.ID, active.Routine.ID)
	require.Len(t, active.Exercises, 2)
	assert.Equal(t, "Squat", active.Exercises[0].Exercise.Name)
	assert.Equal(t, "Lunge", active.Exercises[1].Exercise.Name)
}
