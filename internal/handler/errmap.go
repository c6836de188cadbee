package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/campuscore/placement-backend/internal/repository"
	"github.com/campuscore/placement-backend/internal/response"
	"github.com/campuscore/placement-backend/internal/service"
)

// failDomain maps service-layer sentinel errors onto the response envelope.
// Anything unrecognized is a 500; wrapped repository errors stay opaque.
func failDomain(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotCourseOwner)
	case errors.Is(err, service.ErrEditAfterPublish):
		response.Fail(c, http.StatusConflict, response.ErrEditAfterPublish)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrPassAboveTotal):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrNotAssigned):
		response.Fail(c, http.StatusBadRequest, response.ErrNotAssigned)
	case errors.Is(err, service.ErrWindowInverted):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrNotEligible):
		response.Fail(c, http.StatusConflict, response.ErrNotAvailable)
	case errors.Is(err, service.ErrNotAvailable):
		response.Fail(c, http.StatusConflict, response.ErrNotAvailable)
	case errors.Is(err, service.ErrResultNotReady):
		response.Fail(c, http.StatusConflict, response.ErrResultNotReady)
	case errors.Is(err, repository.ErrQuotaExhausted):
		response.Fail(c, http.StatusConflict, response.ErrQuotaExceeded)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrScopeForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
