package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscore/placement-backend/internal/response"
	"github.com/campuscore/placement-backend/internal/service"
)

// DirectoryHandler serves the read-only department and class directory used
// by trainers when building cohort assignments.
type DirectoryHandler struct {
	directoryService *service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// ListDepartments godoc
// GET /api/v1/trainer/directory/departments
func (h *DirectoryHandler) ListDepartments(c *gin.Context) {
	departments, err := h.directoryService.ListDepartments(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// ListClasses godoc
// GET /api/v1/trainer/directory/departments/:department_id/classes
func (h *DirectoryHandler) ListClasses(c *gin.Context) {
	departmentID := c.Param("department_id")
	if departmentID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	classes, err := h.directoryService.ListClasses(c.Request.Context(), departmentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}
