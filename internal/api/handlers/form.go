package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/validation"
)

// Edit is one user change replayed on a freshly built form.
type Edit struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type EvaluateRequest struct {
	Value map[string]any `json:"value"`
	Edits []Edit         `json:"edits"`
}

type EvaluateResponse struct {
	Value    any                          `json:"value"`
	Valid    bool                         `json:"valid"`
	Disabled []string                     `json:"disabled"`
	Errors   []form.FieldError            `json:"errors"`
	Messages []validation.ValidationError `json:"messages,omitempty"`
}

// FormHandler builds forms server side so clients can preview the rules
// (enablement, defaults, validation) of an entity type without saving.
type FormHandler struct {
	factory *form.Factory
}

func NewFormHandler(factory *form.Factory) *FormHandler {
	return &FormHandler{factory: factory}
}

func (h *FormHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": h.factory.Types()})
}

func (h *FormHandler) Evaluate(c *gin.Context) {
	entityType := c.Param("entityType")
	mode, err := form.ParseAccessMode(c.DefaultQuery("mode", string(form.AccessAdd)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scope, err := form.ParseScope(c.Query("scope"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Value == nil {
		req.Value = map[string]any{}
	}

	model, err := h.factory.Decode(entityType, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	g, err := h.factory.Group(ctx, entityType, model, form.Options{Mode: mode, Scope: scope})
	if err != nil {
		writeError(c, err)
		return
	}
	if err := applyEdits(g, req.Edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := EvaluateResponse{
		Value:    g.RawValue(),
		Valid:    g.Valid(),
		Disabled: form.DisabledPaths(g),
		Errors:   form.Report(g),
	}
	if ve := validation.GetValidationErrors(validation.FromForm(g)); ve != nil {
		resp.Messages = ve.Errors
	}
	c.JSON(http.StatusOK, resp)
}

// applyEdits replays edits in order. Disabled fields reject edits the way a
// disabled input would.
func applyEdits(g *form.Group, edits []Edit) error {
	for _, e := range edits {
		f, ok := g.Get(e.Path).(*form.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", e.Path)
		}
		if !f.Enabled() {
			return fmt.Errorf("field %q is disabled", e.Path)
		}
		if err := f.EditJSON(e.Value); err != nil {
			return fmt.Errorf("field %q: %w", e.Path, err)
		}
	}
	return nil
}
