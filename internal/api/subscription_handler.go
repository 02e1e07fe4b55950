package api

import (
	"net/http"

	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// PaymentSimulationRequest drives the simulated gateway. Success defaults to true.
type PaymentSimulationRequest struct {
	Success *bool  `json:"success"`
	Method  string `json:"method"`
}

type PurchaseRequest struct {
	Plan       string                   `json:"plan" binding:"required"`
	Simulation PaymentSimulationRequest `json:"simulation"`
}

type PurchaseResponse struct {
	Message      string               `json:"message"`
	Plan         catalog.Tier         `json:"plan"`
	Subscription *domain.Subscription `json:"subscription"`
}

type CancelResponse struct {
	Message                string               `json:"message"`
	Plan                   domain.PlanTier      `json:"plan"`
	Subscription           *domain.Subscription `json:"subscription,omitempty"`
	DeactivatedAssignments int64                `json:"deactivatedAssignments"`
}

type CurrentPlanResponse struct {
	Plan         catalog.Tier         `json:"plan"`
	Subscription *domain.Subscription `json:"subscription,omitempty"`
	DaysLeft     int                  `json:"daysLeft"`
}

// ListPlans godoc
// @Summary Subscription plans on offer
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} catalog.Tier
// @Router /subscriptions/plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.subscriptionService.Plans())
}

// callerClientID answers 403 when the caller has no client profile.
func callerClientID(c *gin.Context) (primitive.ObjectID, bool) {
	principal := mustPrincipal(c)
	if principal.ClientID == nil {
		respondError(c, errNoClientProfile)
		return primitive.NilObjectID, false
	}
	return *principal.ClientID, true
}

// GetMySubscription godoc
// @Summary The calling client's current plan
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CurrentPlanResponse
// @Router /subscriptions/mine [get]
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	clientID, ok := callerClientID(c)
	if !ok {
		return
	}
	current, err := h.subscriptionService.Current(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CurrentPlanResponse{
		Plan:         current.Tier,
		Subscription: current.Subscription,
		DaysLeft:     current.DaysLeft,
	})
}

func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	clientID, ok := callerClientID(c)
	if !ok {
		return
	}
	history, err := h.subscriptionService.History(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Purchase godoc
// @Summary Buy a paid plan
// @Description Replaces any active subscription. Payment is simulated.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PurchaseRequest true "Plan and payment simulation"
// @Success 201 {object} PurchaseResponse
// @Failure 400 {object} gin.H "Unknown or free plan"
// @Failure 402 {object} gin.H "Payment rejected"
// @Failure 409 {object} gin.H "Plan already active"
// @Router /subscriptions/purchase [post]
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	clientID, ok := callerClientID(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.subscriptionService.Purchase(
		c.Request.Context(),
		clientID,
		domain.NormalizePlanTier(req.Plan),
		service.PaymentSimulation{Success: req.Simulation.Success, Method: req.Simulation.Method},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, PurchaseResponse{
		Message:      "Subscription activated",
		Plan:         result.Tier,
		Subscription: result.Subscription,
	})
}

// Cancel godoc
// @Summary Cancel the paid plan and fall back to the free tier
// @Description Personalized routine assignments are deactivated. Generic ones stay.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CancelResponse
// @Failure 409 {object} gin.H "Nothing to cancel"
// @Router /subscriptions/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	clientID, ok := callerClientID(c)
	if !ok {
		return
	}
	result, err := h.subscriptionService.Cancel(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CancelResponse{
		Message:                "Subscription canceled",
		Plan:                   result.Client.Plan,
		Subscription:           result.Subscription,
		DeactivatedAssignments: result.DeactivatedAssignments,
	})
}
