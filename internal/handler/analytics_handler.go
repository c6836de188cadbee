package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuscore/placement-backend/internal/middleware"
	"github.com/campuscore/placement-backend/internal/response"
	"github.com/campuscore/placement-backend/internal/service"
)

// AnalyticsHandler handles aggregated result endpoints. The department
// scope a caller ends up with is decided in the service from their role.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary godoc
// GET /api/v1/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.analyticsService.GetSummary(c.Request.Context(),
		claims.Role, claims.DepartmentID, queryDepartment(c))
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// GetPerTest godoc
// GET /api/v1/analytics/tests
func (h *AnalyticsHandler) GetPerTest(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	breakdown, err := h.analyticsService.GetPerTest(c.Request.Context(),
		claims.Role, claims.DepartmentID, queryDepartment(c))
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": breakdown})
}

// GetPerDepartment godoc
// GET /api/v1/analytics/departments
func (h *AnalyticsHandler) GetPerDepartment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	breakdown, err := h.analyticsService.GetPerDepartment(c.Request.Context(),
		claims.Role, claims.DepartmentID, queryDepartment(c))
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"departments": breakdown})
}

// GetCourseParticipation godoc
// GET /api/v1/analytics/courses/:course_id/participation
func (h *AnalyticsHandler) GetCourseParticipation(c *gin.Context) {
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

	participation, err := h.analyticsService.GetCourseParticipation(c.Request.Context(),
		courseID, claims.Role, claims.UserID, claims.DepartmentID, queryDepartment(c))
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"participation": participation})
}

func queryDepartment(c *gin.Context) *string {
	if d := c.Query("department_id"); d != "" {
		return &d
	}
	return nil
}
