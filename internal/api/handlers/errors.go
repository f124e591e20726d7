package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/document"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/storeservice"
	"github.com/baseplate/storeops/internal/core/validation"
)

// writeError maps service errors to responses. Unexpected errors are
// recorded on the context for the request log and answered with a 500.
func writeError(c *gin.Context, err error) {
	switch {
	case validation.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": validation.GetValidationErrors(err)})
	case errors.Is(err, receipt.ErrNotFound), errors.Is(err, storeservice.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, form.ErrUnregisteredType):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
