package api

import (
	"net/http"
	"strconv"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoutineHandler struct {
	routineService    service.RoutineService
	assignmentService service.AssignmentService
}

func NewRoutineHandler(routineService service.RoutineService, assignmentService service.AssignmentService) *RoutineHandler {
	return &RoutineHandler{
		routineService:    routineService,
		assignmentService: assignmentService,
	}
}

// --- DTOs ---

type RoutineExerciseRequest struct {
	ExerciseID  string `json:"exerciseId" binding:"required"`
	Day         int    `json:"day" binding:"required,min=1,max=7"`
	Order       int    `json:"order"`
	Sets        int    `json:"sets" binding:"required,min=1"`
	Reps        string `json:"reps" binding:"required"`
	RestSeconds int    `json:"restSeconds" binding:"min=0"`
	Notes       string `json:"notes"`
}

type CreateRoutineRequest struct {
	// TrainerID is required when an admin creates a routine on a trainer's behalf.
	TrainerID     string                   `json:"trainerId"`
	Name          string                   `json:"name" binding:"required"`
	Description   string                   `json:"description"`
	Goal          string                   `json:"goal"`
	DurationWeeks int                      `json:"durationWeeks" binding:"min=0"`
	IsGeneric     bool                     `json:"isGeneric"`
	Exercises     []RoutineExerciseRequest `json:"exercises" binding:"dive"`
}

type UpdateRoutineRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Goal          string `json:"goal"`
	DurationWeeks int    `json:"durationWeeks" binding:"min=0"`
	IsGeneric     bool   `json:"isGeneric"`
}

type AssignRoutineRequest struct {
	ClientID  string     `json:"clientId" binding:"required"`
	TrainerID string     `json:"trainerId"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type RoutineExerciseResponse struct {
	domain.RoutineExercise
	Exercise *domain.Exercise `json:"exercise,omitempty"`
}

type RoutineDetailResponse struct {
	*domain.Routine
	Exercises   []RoutineExerciseResponse `json:"exercises"`
	Assignments []domain.Assignment       `json:"assignments,omitempty"`
}

type ActiveRoutineResponse struct {
	Assignment *domain.Assignment        `json:"assignment"`
	Routine    *domain.Routine           `json:"routine"`
	Exercises  []RoutineExerciseResponse `json:"exercises"`
}

func mapRoutineExercises(in []service.RoutineExerciseDetail) []RoutineExerciseResponse {
	out := make([]RoutineExerciseResponse, 0, len(in))
	for _, e := range in {
		out = append(out, RoutineExerciseResponse{RoutineExercise: e.Entry, Exercise: e.Exercise})
	}
	return out
}

func MapRoutineDetailToResponse(d *service.RoutineDetail) RoutineDetailResponse {
	return RoutineDetailResponse{
		Routine:     d.Routine,
		Exercises:   mapRoutineExercises(d.Exercises),
		Assignments: d.Assignments,
	}
}

func (r RoutineExerciseRequest) input() (service.RoutineExerciseInput, error) {
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return service.RoutineExerciseInput{}, errInvalidID
	}
	return service.RoutineExerciseInput{
		ExerciseID:  exerciseID,
		Day:         r.Day,
		Order:       r.Order,
		Sets:        r.Sets,
		Reps:        r.Reps,
		RestSeconds: r.RestSeconds,
		Notes:       r.Notes,
	}, nil
}

// optionalID parses a hex id that may be empty.
func optionalID(hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errInvalidID
	}
	return id, nil
}

// --- Handlers ---

// ListRoutines godoc
// @Summary List routines
// @Description Trainers see their own routines unless trainerId is given. Clients only see generic templates.
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param trainerId query string false "Author trainer ID"
// @Param generic query bool false "Only generic (true) or personalized (false) routines"
// @Success 200 {array} domain.Routine
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	principal := mustPrincipal(c)

	var filter repository.RoutineFilter
	if raw := c.Query("trainerId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, errInvalidID)
			return
		}
		filter.TrainerID = &id
	} else if principal.Role == domain.RoleTrainer && principal.TrainerID != nil {
		filter.TrainerID = principal.TrainerID
	}
	if raw := c.Query("generic"); raw != "" {
		generic, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "generic must be a boolean")
			return
		}
		filter.Generic = &generic
	}
	if principal.Role == domain.RoleClient {
		generic := true
		filter.Generic = &generic
	}

	routines, err := h.routineService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Routine detail with ordered exercises and assignments
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 200 {object} RoutineDetailResponse
// @Failure 404 {object} gin.H
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.routineService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineDetailToResponse(detail))
}

// GetMyRoutine godoc
// @Summary The routine the calling client currently follows
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ActiveRoutineResponse
// @Failure 404 {object} gin.H "No active routine"
// @Router /routines/mine [get]
func (h *RoutineHandler) GetMyRoutine(c *gin.Context) {
	clientID, ok := callerClientID(c)
	if !ok {
		return
	}
	active, err := h.assignmentService.ActiveForClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActiveRoutineResponse{
		Assignment: active.Assignment,
		Routine:    active.Routine,
		Exercises:  mapRoutineExercises(active.Exercises),
	})
}

// CreateRoutine godoc
// @Summary Create a routine, optionally with its exercises
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoutineRequest true "Routine"
// @Success 201 {object} RoutineDetailResponse
// @Failure 400 {object} gin.H
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	principal := mustPrincipal(c)

	var req CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// 1. Resolve the author
	var trainerID primitive.ObjectID
	if principal.Role == domain.RoleTrainer {
		if principal.TrainerID == nil {
			respondError(c, errNoTrainerProfile)
			return
		}
		trainerID = *principal.TrainerID
	} else {
		id, err := optionalID(req.TrainerID)
		if err != nil || id.IsZero() {
			abortWithError(c, http.StatusBadRequest, "trainerId is required")
			return
		}
		trainerID = id
	}

	// 2. Convert entries
	entries := make([]service.RoutineExerciseInput, 0, len(req.Exercises))
	for _, e := range req.Exercises {
		in, err := e.input()
		if err != nil {
			respondError(c, err)
			return
		}
		entries = append(entries, in)
	}

	detail, err := h.routineService.Create(c.Request.Context(), trainerID, service.RoutineInput{
		Name:          req.Name,
		Description:   req.Description,
		Goal:          req.Goal,
		DurationWeeks: req.DurationWeeks,
		IsGeneric:     req.IsGeneric,
	}, entries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapRoutineDetailToResponse(detail))
}

func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req UpdateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	routine, err := h.routineService.Update(c.Request.Context(), id, service.RoutineInput{
		Name:          req.Name,
		Description:   req.Description,
		Goal:          req.Goal,
		DurationWeeks: req.DurationWeeks,
		IsGeneric:     req.IsGeneric,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.routineService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddRoutineExercise godoc
// @Summary Add an exercise entry to a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body RoutineExerciseRequest true "Entry"
// @Success 201 {object} domain.RoutineExercise
// @Router /routines/{id}/exercises [post]
func (h *RoutineHandler) AddRoutineExercise(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req RoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := h.routineService.AddExercise(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *RoutineHandler) UpdateRoutineExercise(c *gin.Context) {
	id, err := pathID(c, "entryId")
	if err != nil {
		respondError(c, err)
		return
	}
	var req RoutineExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := h.routineService.UpdateExercise(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *RoutineHandler) RemoveRoutineExercise(c *gin.Context) {
	id, err := pathID(c, "entryId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.routineService.RemoveExercise(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignRoutine godoc
// @Summary Assign a routine to a client
// @Description Any routine the client was following is deactivated first.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body AssignRoutineRequest true "Assignment"
// @Success 201 {object} domain.Assignment
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /routines/{id}/assign [post]
func (h *RoutineHandler) AssignRoutine(c *gin.Context) {
	principal := mustPrincipal(c)

	routineID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req AssignRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	clientID, err := optionalID(req.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	trainerID, err := optionalID(req.TrainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	// Trainers always supervise what they assign.
	if principal.Role == domain.RoleTrainer && principal.TrainerID != nil {
		trainerID = *principal.TrainerID
	}

	assignment, err := h.assignmentService.Assign(c.Request.Context(), service.AssignInput{
		RoutineID: routineID,
		ClientID:  clientID,
		TrainerID: trainerID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// DeactivateAssignment godoc
// @Summary Deactivate a routine assignment
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} domain.Assignment
// @Router /routines/assignments/{id} [delete]
func (h *RoutineHandler) DeactivateAssignment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	assignment, err := h.assignmentService.Deactivate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}
