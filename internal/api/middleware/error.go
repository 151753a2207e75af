package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-stress/internal/api/models"
)

// ErrorHandler turns panics into the standard error envelope so clients
// never see gin's default recovery output.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "an unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
