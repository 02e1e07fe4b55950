package api_test

import (
	"net/http"
	"testing"

	"alcyxob/bodytrack/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.registerClient(t, "lucia@example.com")

	w := s.do(t, http.MethodGet, "/api/v1/subscriptions/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FREE", string(decode[api.CurrentPlanResponse](t, w).Plan.Code))

	w = s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, api.PurchaseRequest{Plan: "premium"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchase := decode[api.PurchaseResponse](t, w)
	assert.Equal(t, "PREMIUM", string(purchase.Plan.Code))
	require.NotNil(t, purchase.Subscription)
	assert.Equal(t, "ACTIVA", string(purchase.Subscription.Status))
	assert.Equal(t, 29.99, purchase.Subscription.Amount)

	w = s.do(t, http.MethodGet, "/api/v1/subscriptions/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decode[api.CurrentPlanResponse](t, w)
	assert.Equal(t, "PREMIUM", string(current.Plan.Code))
	assert.Equal(t, 30, current.DaysLeft)

	w = s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, api.PurchaseRequest{Plan: "PREMIUM"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/subscriptions/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

func TestPurchaseRejections(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.registerClient(t, "lucia@example.com")
	trainerToken, _ := s.registerTrainer(t, "marco@example.com")

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, api.PurchaseRequest{Plan: "FREE"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, api.PurchaseRequest{Plan: "GOLD"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, map[string]any{}).Code)

	declined := false
	w := s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", token, api.PurchaseRequest{
		Plan:       "PREMIUM",
		Simulation: api.PaymentSimulationRequest{Success: &declined},
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	// Nothing changed after the declined payment.
	w = s.do(t, http.MethodGet, "/api/v1/subscriptions/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", trainerToken, api.PurchaseRequest{Plan: "PREMIUM"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCancelDropsPersonalizedRoutine(t *testing.T) {
	s := newTestServer(t)
	clientToken, clientID := s.registerClient(t, "lucia@example.com")
	trainerToken, _ := s.registerTrainer(t, "marco@example.com")

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/subscriptions/cancel", clientToken, nil).Code)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", clientToken, api.PurchaseRequest{Plan: "PREMIUM"}).Code)

	exerciseID := s.exercise(t, trainerToken, "Squat")
	routineID := s.routine(t, trainerToken, false, exerciseID)
	w := s.do(t, http.MethodPost, "/api/v1/routines/"+routineID+"/assign", trainerToken, api.AssignRoutineRequest{ClientID: clientID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil).Code)

	w = s.do(t, http.MethodPost, "/api/v1/subscriptions/cancel", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancel := decode[api.CancelResponse](t, w)
	assert.Equal(t, "FREE", string(cancel.Plan))
	assert.EqualValues(t, 1, cancel.DeactivatedAssignments)
	require.NotNil(t, cancel.Subscription)
	assert.Equal(t, "CANCELADA", string(cancel.Subscription.Status))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/subscriptions/cancel", clientToken, nil).Code)
}

func TestCancelKeepsGenericRoutine(t *testing.T) {
	s := newTestServer(t)
	clientToken, clientID := s.registerClient(t, "lucia@example.com")
	trainerToken, _ := s.registerTrainer(t, "marco@example.com")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", clientToken, api.PurchaseRequest{Plan: "PREMIUM"}).Code)
	routineID := s.routine(t, trainerToken, true, s.exercise(t, trainerToken, "Squat"))
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/routines/"+routineID+"/assign", trainerToken, api.AssignRoutineRequest{ClientID: clientID}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/subscriptions/cancel", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[api.CancelResponse](t, w).DeactivatedAssignments)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/routines/mine", clientToken, nil).Code)
}

func TestAdminSweepAndStats(t *testing.T) {
	s := newTestServer(t)
	clientToken, _ := s.registerClient(t, "lucia@example.com")
	adminToken := s.admin(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/subscriptions/purchase", clientToken, api.PurchaseRequest{Plan: "PREMIUM"}).Code)

	// Nothing has lapsed yet.
	w := s.do(t, http.MethodPost, "/api/v1/admin/subscriptions/sweep", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[api.SweepResponse](t, w).Expired)

	w = s.do(t, http.MethodGet, "/api/v1/admin/subscriptions/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[api.SubscriptionStatsResponse](t, w)
	assert.EqualValues(t, 1, stats.ByStatus["ACTIVA"])
	assert.EqualValues(t, 1, stats.ClientsByPlan["PREMIUM"])
	assert.Equal(t, 29.99, stats.ActiveRevenue)
}
