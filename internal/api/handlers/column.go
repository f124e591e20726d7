package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baseplate/storeops/internal/core/search"
)

// ColumnHandler serves the column metadata of each searchable resource.
type ColumnHandler struct {
	resources map[string]search.Columns
}

func NewColumnHandler(resources map[string]search.Columns) *ColumnHandler {
	return &ColumnHandler{resources: resources}
}

func (h *ColumnHandler) Get(c *gin.Context) {
	columns, ok := h.resources[c.Param("resource")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown resource"})
		return
	}

	comparators := make(map[string][]string, len(columns))
	for _, col := range columns.Searchable() {
		keys := make([]string, 0)
		for _, cmp := range search.ComparatorsFor(col) {
			keys = append(keys, cmp.Key)
		}
		comparators[col.Name] = keys
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns, "comparators": comparators})
}
