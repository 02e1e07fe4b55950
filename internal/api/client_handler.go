package api

import (
	"net/http"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService     service.ClientService
	assignmentService service.AssignmentService
}

func NewClientHandler(clientService service.ClientService, assignmentService service.AssignmentService) *ClientHandler {
	return &ClientHandler{
		clientService:     clientService,
		assignmentService: assignmentService,
	}
}

// UpdateClientRequest leaves out plan on purpose; plans change through subscriptions.
type UpdateClientRequest struct {
	DNI       *string    `json:"dni"`
	Names     *string    `json:"names"`
	LastNames *string    `json:"lastNames"`
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birthDate"`
	Gender    *string    `json:"gender"`
	Address   *string    `json:"address"`
	Weight    *float64   `json:"weight"`
	Height    *float64   `json:"height"`
}

type ClientDetailResponse struct {
	*domain.Client
	Email        string               `json:"email,omitempty"`
	Active       bool                 `json:"active"`
	Subscription *domain.Subscription `json:"subscription,omitempty"`
	Assignment   *domain.Assignment   `json:"activeAssignment,omitempty"`
}

// ListClients godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient godoc
// @Summary Client detail with current subscription and routine
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} ClientDetailResponse
// @Failure 404 {object} gin.H
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := ClientDetailResponse{
		Client:       detail.Client,
		Subscription: detail.Subscription,
		Assignment:   detail.Assignment,
	}
	if detail.User != nil {
		resp.Email = detail.User.Email
		resp.Active = detail.User.Active
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateClient godoc
// @Summary Update a client profile
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param body body UpdateClientRequest true "Fields to change"
// @Success 200 {object} domain.Client
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	client, err := h.clientService.Update(c.Request.Context(), id, service.ClientUpdate{
		DNI:       req.DNI,
		Names:     req.Names,
		LastNames: req.LastNames,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		Address:   req.Address,
		Weight:    req.Weight,
		Height:    req.Height,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientAssignments godoc
// @Summary Routine assignments of a client, newest first
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {array} domain.Assignment
// @Router /clients/{id}/assignments [get]
func (h *ClientHandler) GetClientAssignments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	assignments, err := h.assignmentService.ListForClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// DeleteClient godoc
// @Summary Delete a client and its account
// @Tags Clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
