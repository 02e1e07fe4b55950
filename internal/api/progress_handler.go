package api

import (
	"net/http"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// ProgressRequest carries body metrics. Omitted fields are left untouched on update.
type ProgressRequest struct {
	Date       *time.Time `json:"date"`
	Weight     *float64   `json:"weight"`
	BodyFatPct *float64   `json:"bodyFatPct"`
	Chest      *float64   `json:"chest"`
	Waist      *float64   `json:"waist"`
	Hips       *float64   `json:"hips"`
	Arm        *float64   `json:"arm"`
	Leg        *float64   `json:"leg"`
	PhotoKeys  []string   `json:"photoKeys"`
	Notes      *string    `json:"notes"`
}

func (r ProgressRequest) input() service.ProgressInput {
	return service.ProgressInput{
		Date:       r.Date,
		Weight:     r.Weight,
		BodyFatPct: r.BodyFatPct,
		Chest:      r.Chest,
		Waist:      r.Waist,
		Hips:       r.Hips,
		Arm:        r.Arm,
		Leg:        r.Leg,
		PhotoKeys:  r.PhotoKeys,
		Notes:      r.Notes,
	}
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ProgressListResponse struct {
	Records []domain.ProgressRecord `json:"records"`
	Plan    domain.PlanTier         `json:"plan"`
	// VisibleSince is set when older records are hidden by the client's plan.
	VisibleSince *time.Time `json:"visibleSince,omitempty"`
}

type ProgressRecordResponse struct {
	*domain.ProgressRecord
	PhotoURLs []string `json:"photoUrls"`
}

// ListClientProgress godoc
// @Summary Progress history of a client
// @Description Clients see the window their plan allows; staff see the full history.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} ProgressListResponse
// @Failure 403 {object} gin.H
// @Router /progress/client/{clientId} [get]
func (h *ProgressHandler) ListClientProgress(c *gin.Context) {
	clientID, err := pathID(c, "clientId")
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.progressService.ListForViewer(c.Request.Context(), clientID, mustPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressListResponse{
		Records:      view.Records,
		Plan:         view.Tier,
		VisibleSince: view.Since,
	})
}

func (h *ProgressHandler) GetClientProgressStats(c *gin.Context) {
	clientID, err := pathID(c, "clientId")
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.progressService.Stats(c.Request.Context(), clientID, mustPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetProgress godoc
// @Summary One progress record with presigned photo URLs
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Progress record ID"
// @Success 200 {object} ProgressRecordResponse
// @Router /progress/{id} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	record, err := h.progressService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressRecordResponse{
		ProgressRecord: record,
		PhotoURLs:      h.progressService.PhotoURLs(c.Request.Context(), record),
	})
}

// CreateProgress godoc
// @Summary Record body metrics for a client
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param body body ProgressRequest true "Metrics"
// @Success 201 {object} domain.ProgressRecord
// @Failure 400 {object} gin.H
// @Router /progress/client/{clientId} [post]
func (h *ProgressHandler) CreateProgress(c *gin.Context) {
	clientID, err := pathID(c, "clientId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.progressService.Create(c.Request.Context(), clientID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	record, err := h.progressService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.progressService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUploadURL godoc
// @Summary Presigned URL for uploading a progress photo
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param body body PhotoUploadRequest true "Photo content type"
// @Success 200 {object} service.PhotoUpload
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /progress/client/{clientId}/photos/upload-url [post]
func (h *ProgressHandler) RequestPhotoUploadURL(c *gin.Context) {
	clientID, err := pathID(c, "clientId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	upload, err := h.progressService.PhotoUploadURL(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
