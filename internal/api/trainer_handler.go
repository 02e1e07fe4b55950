package api

import (
	"net/http"

	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

type UpdateTrainerRequest struct {
	Names          *string  `json:"names"`
	LastNames      *string  `json:"lastNames"`
	Specialty      *string  `json:"specialty"`
	Certifications []string `json:"certifications"`
	Phone          *string  `json:"phone"`
	Bio            *string  `json:"bio"`
}

func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.trainerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	trainer, err := h.trainerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// UpdateTrainer godoc
// @Summary Update a trainer profile
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Param body body UpdateTrainerRequest true "Fields to change"
// @Success 200 {object} domain.Trainer
// @Router /trainers/{id} [put]
func (h *TrainerHandler) UpdateTrainer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	trainer, err := h.trainerService.Update(c.Request.Context(), id, service.TrainerUpdate{
		Names:          req.Names,
		LastNames:      req.LastNames,
		Specialty:      req.Specialty,
		Certifications: req.Certifications,
		Phone:          req.Phone,
		Bio:            req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// GetTrainerClients godoc
// @Summary Clients currently following one of the trainer's routines
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {array} domain.Client
// @Router /trainers/{id}/clients [get]
func (h *TrainerHandler) GetTrainerClients(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	clients, err := h.trainerService.Clients(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *TrainerHandler) GetTrainerStats(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.trainerService.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
