package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscore/placement-backend/internal/response"
)

// RequireStudent allows only attempt-capable roles through.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !claims.Role.CanAttempt() {
			response.AbortFail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAuthor allows only authoring-capable roles through.
func RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !claims.Role.CanAuthor() {
			response.AbortFail(c, http.StatusForbidden, response.ErrTrainerAccessOnly)
			return
		}
		c.Next()
	}
}

// RequireAnalyticsViewer allows only roles permitted to read aggregates.
func RequireAnalyticsViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !claims.Role.CanViewAnalytics() {
			response.AbortFail(c, http.StatusForbidden, response.ErrRoleNotPermitted)
			return
		}
		c.Next()
	}
}
