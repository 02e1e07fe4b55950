package api

import (
	"net/http"
	"strconv"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService        service.AdminService
	subscriptionService service.SubscriptionService
}

func NewAdminHandler(adminService service.AdminService, subscriptionService service.SubscriptionService) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		subscriptionService: subscriptionService,
	}
}

type SubscriptionStatsResponse struct {
	ByStatus      map[domain.SubscriptionStatus]int64 `json:"byStatus"`
	ClientsByPlan map[domain.PlanTier]int64           `json:"clientsByPlan"`
	ActiveRevenue float64                             `json:"activeRevenue"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
}

// GetStats godoc
// @Summary Admin dashboard counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetSubscriptionStats(c *gin.Context) {
	stats, err := h.subscriptionService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubscriptionStatsResponse{
		ByStatus:      stats.ByStatus,
		ClientsByPlan: stats.ClientsByPlan,
		ActiveRevenue: stats.ActiveRevenue,
	})
}

// ListUsers godoc
// @Summary List accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "client, trainer or admin"
// @Param active query bool false "Filter by active flag"
// @Success 200 {array} UserResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter repository.UserFilter
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		filter.Role = &role
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "active must be a boolean")
			return
		}
		filter.Active = &active
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleUserActive godoc
// @Summary Enable or disable an account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Own account"
// @Router /admin/users/{id}/toggle-active [patch]
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	principal := mustPrincipal(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.adminService.ToggleActive(c.Request.Context(), principal.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SweepExpired godoc
// @Summary Expire lapsed subscriptions now
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SweepResponse
// @Router /admin/subscriptions/sweep [post]
func (h *AdminHandler) SweepExpired(c *gin.Context) {
	n, err := h.subscriptionService.SweepExpired(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SweepResponse{Expired: n})
}
