package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/storeservice"
)

type StoreServiceService interface {
	Create(ctx context.Context, data map[string]any) (*storeservice.StoreService, error)
	Get(ctx context.Context, id uuid.UUID) (*storeservice.StoreService, error)
	Update(ctx context.Context, id uuid.UUID, data map[string]any) (*storeservice.StoreService, error)
	Search(ctx context.Context, q search.QuerySearch) (search.Result[*storeservice.StoreService], error)
	Patch(ctx context.Context, patches []search.Patch) (int, error)
}

type StoreServiceHandler struct {
	service StoreServiceService
}

func NewStoreServiceHandler(service StoreServiceService) *StoreServiceHandler {
	return &StoreServiceHandler{service: service}
}

func (h *StoreServiceHandler) Create(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ss, err := h.service.Create(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ss)
}

func (h *StoreServiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ss, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ss)
}

func (h *StoreServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ss, err := h.service.Update(c.Request.Context(), id, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ss)
}

func (h *StoreServiceHandler) Search(c *gin.Context) {
	var q search.QuerySearch
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Patch applies a grid save and answers with the number of updated rows.
func (h *StoreServiceHandler) Patch(c *gin.Context) {
	var patches []search.Patch
	if err := c.ShouldBindJSON(&patches); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.service.Patch(c.Request.Context(), patches)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}
