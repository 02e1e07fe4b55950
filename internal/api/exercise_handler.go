package api

import (
	"net/http"

	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment"`
	Difficulty  string `json:"difficulty"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Description: r.Description,
		MuscleGroup: r.MuscleGroup,
		Equipment:   r.Equipment,
		Difficulty:  r.Difficulty,
		VideoURL:    r.VideoURL,
		ImageURL:    r.ImageURL,
	}
}

// ListExercises godoc
// @Summary List library exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Muscle group"
// @Param equipment query string false "Equipment"
// @Param search query string false "Name contains"
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context(), repository.ExerciseFilter{
		MuscleGroup: c.Query("muscleGroup"),
		Equipment:   c.Query("equipment"),
		Search:      c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) ListMuscleGroups(c *gin.Context) {
	groups, err := h.exerciseService.MuscleGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// CreateExercise godoc
// @Summary Add an exercise to the library
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ExerciseRequest true "Exercise"
// @Success 201 {object} domain.Exercise
// @Failure 400 {object} gin.H
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	principal := mustPrincipal(c)

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), principal.UserID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
