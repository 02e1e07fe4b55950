package api

import (
	"errors"
	"fmt"
	"net/http"

	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/service"
	"alcyxob/bodytrack/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errInvalidID        = errors.New("invalid id")
	errNoClientProfile  = errors.New("no client profile is linked to this account")
	errNoTrainerProfile = errors.New("no trainer profile is linked to this account")
)

// errorStatus maps service errors to HTTP status codes. First match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{errInvalidID, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrInvalidPlan, http.StatusBadRequest},
	{service.ErrWrongPassword, http.StatusBadRequest},

	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrPaymentRejected, http.StatusPaymentRequired},

	{service.ErrAccountDisabled, http.StatusForbidden},
	{authz.ErrForbidden, http.StatusForbidden},
	{errNoClientProfile, http.StatusForbidden},
	{errNoTrainerProfile, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrClientNotFound, http.StatusNotFound},
	{service.ErrTrainerNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrRoutineNotFound, http.StatusNotFound},
	{service.ErrRoutineExerciseNotFound, http.StatusNotFound},
	{service.ErrAssignmentNotFound, http.StatusNotFound},
	{service.ErrNoActiveRoutine, http.StatusNotFound},
	{service.ErrProgressNotFound, http.StatusNotFound},
	{service.ErrPostNotFound, http.StatusNotFound},
	{service.ErrCommentNotFound, http.StatusNotFound},

	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrDNIAlreadyExists, http.StatusConflict},
	{service.ErrDuplicateActiveSubscription, http.StatusConflict},
	{service.ErrNothingToCancel, http.StatusConflict},

	{storage.ErrNotConfigured, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Unmapped errors are logged and hidden from the caller.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		abortWithError(c, status, "An unexpected error occurred")
		return
	}
	abortWithError(c, status, err.Error())
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", errInvalidID, name)
	}
	return id, nil
}

func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
}
