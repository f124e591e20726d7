package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler answers with a JSON error when a handler recorded errors with
// c.Error but wrote no response, and turns panics into 500s.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "handler panic", "panic", r, "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status := http.StatusInternalServerError
		if last := c.Errors.Last(); last.IsType(gin.ErrorTypeBind) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": c.Errors.Last().Error()})
	}
}
