package api_test

import (
	"net/http"
	"testing"

	"alcyxob/bodytrack/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutineListVisibility(t *testing.T) {
	s := newTestServer(t)
	clientToken, _ := s.registerClient(t, "lucia@example.com")
	marcoToken, _ := s.registerTrainer(t, "marco@example.com")
	anaToken, anaID := s.registerTrainer(t, "ana@example.com")

	squat := s.exercise(t, marcoToken, "Squat")
	s.routine(t, marcoToken, true, squat)
	s.routine(t, marcoToken, false, squat)
	s.routine(t, anaToken, false, squat)

	w := s.do(t, http.MethodGet, "/api/v1/routines", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	routines := decode[[]map[string]any](t, w)
	require.Len(t, routines, 1)
	assert.Equal(t, true, routines[0]["isGeneric"])

	// A client cannot widen the filter.
	w = s.do(t, http.MethodGet, "/api/v1/routines?generic=false", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/v1/routines", marcoToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/v1/routines?trainerId="+anaID, marcoToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/routines?generic=maybe", marcoToken, nil).Code)
}

func TestRoutineDetailAndEntries(t *testing.T) {
	s := newTestServer(t)
	marcoToken, _ := s.registerTrainer(t, "marco@example.com")
	anaToken, _ := s.registerTrainer(t, "ana@example.com")

	squat := s.exercise(t, marcoToken, "Squat")
	press := s.exercise(t, marcoToken, "Press")
	routineID := s.routine(t, marcoToken, false, squat)

	entry := api.RoutineExerciseRequest{ExerciseID: press, Day: 2, Sets: 4, Reps: "8-12"}
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/routines/"+routineID+"/exercises", anaToken, entry).Code)

	w := s.do(t, http.MethodPost, "/api/v1/routines/"+routineID+"/exercises", marcoToken, entry)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entryID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/routines/"+routineID+"/exercises", marcoToken, api.RoutineExerciseRequest{ExerciseID: press, Day: 9, Sets: 1, Reps: "5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/routines/"+routineID, anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[api.RoutineDetailResponse](t, w)
	require.Len(t, detail.Exercises, 2)
	assert.Equal(t, 1, detail.Exercises[0].Day)
	require.NotNil(t, detail.Exercises[1].Exercise)
	assert.Equal(t, "Press", detail.Exercises[1].Exercise.Name)

	entry.Sets = 5
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, "/api/v1/routines/exercises/"+entryID, anaToken, entry).Code)
	w = s.do(t, http.MethodPut, "/api/v1/routines/exercises/"+entryID, marcoToken, entry)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 5, decode[map[string]any](t, w)["sets"])

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/routines/exercises/"+entryID, marcoToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/routines/"+routineID, marcoToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/routines/"+routineID, marcoToken, nil).Code)
}

func TestAdminCreatesRoutineForTrainer(t *testing.T) {
	s := newTestServer(t)
	marcoToken, marcoID := s.registerTrainer(t, "marco@example.com")
	adminToken := s.admin(t)
	squat := s.exercise(t, marcoToken, "Squat")

	w := s.do(t, http.MethodPost, "/api/v1/routines", adminToken, api.CreateRoutineRequest{Name: "Mobility"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/routines", adminToken, api.CreateRoutineRequest{
		TrainerID: marcoID,
		Name:      "Mobility",
		Exercises: []api.RoutineExerciseRequest{{ExerciseID: squat, Day: 1, Sets: 2, Reps: "15"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, marcoID, decode[map[string]any](t, w)["trainerId"])
}

func TestAssignReplacesActiveRoutine(t *testing.T) {
	s := newTestServer(t)
	clientToken, clientID := s.registerClient(t, "lucia@example.com")
	marcoToken, marcoID := s.registerTrainer(t, "marco@example.com")
	anaToken, _ := s.registerTrainer(t, "ana@example.com")

	squat := s.exercise(t, marcoToken, "Squat")
	first := s.routine(t, marcoToken, true, squat)
	second := s.routine(t, marcoToken, false, squat)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/v1/routines/mine", marcoToken, nil).Code)

	// Ana does not own Marco's routine.
	w := s.do(t, http.MethodPost, "/api/v1/routines/"+first+"/assign", anaToken, api.AssignRoutineRequest{ClientID: clientID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/routines/"+first+"/assign", marcoToken, api.AssignRoutineRequest{ClientID: clientID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	firstAssignment := decode[map[string]any](t, w)
	assert.Equal(t, marcoID, firstAssignment["trainerId"])

	w = s.do(t, http.MethodPost, "/api/v1/routines/"+second+"/assign", marcoToken, api.AssignRoutineRequest{ClientID: clientID})
	require.Equal(t, http.StatusCreated, w.Code)
	secondAssignmentID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[api.ActiveRoutineResponse](t, w)
	assert.Equal(t, second, mine.Routine.ID.Hex())
	assert.Len(t, mine.Exercises, 1)

	w = s.do(t, http.MethodGet, "/api/v1/clients/"+clientID+"/assignments", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/v1/routines/"+first, marcoToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[api.RoutineDetailResponse](t, w)
	require.Len(t, detail.Assignments, 1)
	assert.False(t, detail.Assignments[0].Active)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/api/v1/routines/assignments/"+secondAssignmentID, anaToken, nil).Code)
	w = s.do(t, http.MethodDelete, "/api/v1/routines/assignments/"+secondAssignmentID, marcoToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["active"])

	// Deactivating twice is harmless.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/v1/routines/assignments/"+secondAssignmentID, marcoToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil).Code)
}
