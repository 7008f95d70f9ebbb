package handler

import (
	"net/http"

	"glerp/internal/service"
	"glerp/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps an application error to the HTTP status its category implies.
func statusFor(err error) int {
	switch service.CodeOf(err) {
	case service.ErrCodeValidation:
		return http.StatusBadRequest
	case service.ErrCodeAuthorization:
		return http.StatusForbidden
	case service.ErrCodeStateConflict:
		return http.StatusConflict
	case service.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the standard error envelope for a service error.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, service.CallerMessage(err)))
}

// currentUsername reads the authenticated username set by the auth middleware.
func currentUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Username not found in context"))
		return "", false
	}
	name, ok := username.(string)
	if !ok || name == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid username in context"))
		return "", false
	}
	return name, true
}
