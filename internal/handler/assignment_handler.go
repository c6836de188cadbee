package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuscore/placement-backend/internal/middleware"
	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/response"
	"github.com/campuscore/placement-backend/internal/service"
	"github.com/campuscore/placement-backend/internal/validator"
)

// AssignmentHandler handles cohort assignment endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// GetCourseAssignments godoc
// GET /api/v1/trainer/courses/:course_id/assignments
func (h *AssignmentHandler) GetCourseAssignments(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cohorts, err := h.assignmentService.ListCourseAssignments(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cohorts": cohorts})
}

// SetCourseAssignments godoc
// PUT /api/v1/trainer/courses/:course_id/assignments
// Replaces the course's full cohort set. An empty set hides the course.
func (h *AssignmentHandler) SetCourseAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetCourseAssignmentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cohorts, err := h.assignmentService.ReplaceCourseAssignments(c.Request.Context(), courseID, claims.UserID, req.Cohorts)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cohorts": cohorts})
}

// GetTestAssignments godoc
// GET /api/v1/trainer/tests/:test_id/assignments
func (h *AssignmentHandler) GetTestAssignments(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cohorts, err := h.assignmentService.ListTestAssignments(c.Request.Context(), testID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cohorts": cohorts})
}

// SetTestAssignments godoc
// PUT /api/v1/trainer/tests/:test_id/assignments
// Replaces the test's cohort set and writes its publish window atomically.
func (h *AssignmentHandler) SetTestAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetTestAssignmentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.assignmentService.ReplaceTestAssignments(c.Request.Context(), testID, claims.UserID, &req)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}
