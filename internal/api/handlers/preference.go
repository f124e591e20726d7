package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/api/middleware"
	"github.com/baseplate/storeops/internal/core/search"
)

// PreferenceStore keeps per-user search page state.
type PreferenceStore interface {
	PreviousSearch(ctx context.Context, userID uuid.UUID, screen string) (*search.PreviousSearch, error)
	SavePreviousSearch(ctx context.Context, userID uuid.UUID, screen string, ps search.PreviousSearch) error
	PreviousColumns(ctx context.Context, userID uuid.UUID, screen string) ([]string, error)
	SavePreviousColumns(ctx context.Context, userID uuid.UUID, screen string, columns []string) error
}

type PreferenceHandler struct {
	store PreferenceStore
}

func NewPreferenceHandler(store PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{store: store}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return userID, ok
}

// GetPreviousSearch answers 204 when the user never searched on the screen.
func (h *PreferenceHandler) GetPreviousSearch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ps, err := h.store.PreviousSearch(c.Request.Context(), userID, c.Param("screen"))
	if err != nil {
		writeError(c, err)
		return
	}
	if ps == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, ps)
}

func (h *PreferenceHandler) SavePreviousSearch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var ps search.PreviousSearch
	if err := c.ShouldBindJSON(&ps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SavePreviousSearch(c.Request.Context(), userID, c.Param("screen"), ps); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PreferenceHandler) GetPreviousColumns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	columns, err := h.store.PreviousColumns(c.Request.Context(), userID, c.Param("screen"))
	if err != nil {
		writeError(c, err)
		return
	}
	if columns == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *PreferenceHandler) SavePreviousColumns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Columns []string `json:"columns" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SavePreviousColumns(c.Request.Context(), userID, c.Param("screen"), req.Columns); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
