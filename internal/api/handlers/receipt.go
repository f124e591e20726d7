package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/search"
)

type ReceiptService interface {
	Create(ctx context.Context, data map[string]any) (*receipt.ReceiptOfMaterial, error)
	Get(ctx context.Context, id uuid.UUID) (*receipt.ReceiptOfMaterial, error)
	Update(ctx context.Context, id uuid.UUID, data map[string]any) (*receipt.ReceiptOfMaterial, error)
	Search(ctx context.Context, q search.QuerySearch) (search.Result[*receipt.ReceiptOfMaterial], error)
}

type ReceiptHandler struct {
	receiptService ReceiptService
}

func NewReceiptHandler(receiptService ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func (h *ReceiptHandler) Create(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.receiptService.Create(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.receiptService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *ReceiptHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.receiptService.Update(c.Request.Context(), id, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *ReceiptHandler) Search(c *gin.Context) {
	var q search.QuerySearch
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.receiptService.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
