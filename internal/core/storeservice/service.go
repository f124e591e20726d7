package storeservice

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/document"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/validation"
)

var ErrNotFound = errors.New("store service not found")

type Service struct {
	docs      *document.Collection[StoreService]
	columns   search.Columns
	forms     *form.Factory
	validator *validation.Validator
}

func NewService(repo *document.Repository, forms *form.Factory, validator *validation.Validator) *Service {
	RegisterForms(forms)
	validator.MustRegister(FormStoreService, Schema())
	columns := Columns()
	return &Service{
		docs:      document.NewCollection[StoreService](repo, Kind, columns),
		columns:   columns,
		forms:     forms,
		validator: validator,
	}
}

func (s *Service) Create(ctx context.Context, data map[string]any) (*StoreService, error) {
	m, err := s.evaluate(ctx, data, form.Options{Mode: form.AccessAdd})
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	m.ID = &id
	if err := s.docs.Insert(ctx, id, m); err != nil {
		return nil, fmt.Errorf("failed to create store service: %w", err)
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*StoreService, error) {
	m, err := s.docs.Get(ctx, id)
	if errors.Is(err, document.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

// Update applies the EDIT rules; store and service never change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, data map[string]any) (*StoreService, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.evaluate(ctx, data, form.Options{Mode: form.AccessEdit})
	if err != nil {
		return nil, err
	}
	m.ID = &id
	m.Store = existing.Store
	m.Service = existing.Service

	if err := s.docs.Replace(ctx, id, m); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update store service: %w", err)
	}
	return m, nil
}

func (s *Service) Search(ctx context.Context, q search.QuerySearch) (search.Result[*StoreService], error) {
	return s.docs.Search(ctx, q)
}

// Patch applies grid saves. Every patch may only touch grid-updatable
// fields, and those fields must pass the mass-update rules. It returns the
// number of store services updated.
func (s *Service) Patch(ctx context.Context, patches []search.Patch) (int, error) {
	updatable := map[string]bool{}
	for _, c := range s.columns {
		if c.GridUpdatable {
			updatable[c.Root()] = true
		}
	}

	changes := make([]document.Change, 0, len(patches))
	var errs []validation.ValidationError
	for i, p := range patches {
		id, err := patchID(p.ID)
		if err != nil {
			errs = append(errs, validation.ValidationError{Field: fmt.Sprintf("[%d].id", i), Message: err.Error()})
			continue
		}
		values := make(map[string]any, len(p.Fields))
		for _, name := range p.Fields {
			if !updatable[name] {
				errs = append(errs, validation.ValidationError{Field: fmt.Sprintf("[%d].%s", i, name), Message: "cannot be changed in bulk"})
				continue
			}
			values[name] = p.UpdateValues[name]
		}
		fieldErrs, err := s.checkPatch(ctx, values)
		if err != nil {
			return 0, err
		}
		for _, fe := range fieldErrs {
			fe.Field = fmt.Sprintf("[%d].%s", i, fe.Field)
			errs = append(errs, fe)
		}
		changes = append(changes, document.Change{ID: id, Values: values})
	}
	if len(errs) > 0 {
		return 0, &validation.ValidationErrors{Errors: errs}
	}
	if len(changes) == 0 {
		return 0, nil
	}
	return s.docs.Patch(ctx, changes)
}

// checkPatch builds a mass-update form holding values and reports errors
// of the patched fields only.
func (s *Service) checkPatch(ctx context.Context, values map[string]any) ([]validation.ValidationError, error) {
	decoded, err := s.forms.Decode(FormStoreService, values)
	if err != nil {
		return []validation.ValidationError{{Field: "updateValues", Message: err.Error()}}, nil
	}
	formCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, err := s.forms.Group(formCtx, FormStoreService, decoded, form.Options{Mode: form.AccessEdit, Scope: form.ScopeMassUpdate})
	if err != nil {
		return nil, err
	}
	var out []validation.ValidationError
	for _, name := range slices.Sorted(maps.Keys(values)) {
		c := g.Get(name)
		if c == nil || c.Valid() {
			continue
		}
		key := form.FirstError(c.Errors())
		out = append(out, validation.ValidationError{Field: name, Message: validation.Message(key, c.Errors()[key])})
	}
	return out, nil
}

func patchID(v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case *uuid.UUID:
		if id != nil {
			return *id, nil
		}
	case string:
		return uuid.Parse(id)
	}
	return uuid.Nil, fmt.Errorf("invalid id %v", v)
}

func (s *Service) evaluate(ctx context.Context, data map[string]any, opts form.Options) (*StoreService, error) {
	if err := s.validator.Validate(FormStoreService, data); err != nil {
		return nil, err
	}
	decoded, err := s.forms.Decode(FormStoreService, data)
	if err != nil {
		return nil, &validation.ValidationErrors{Errors: []validation.ValidationError{{Field: "(root)", Message: err.Error()}}}
	}

	formCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, err := s.forms.Group(formCtx, FormStoreService, decoded, opts)
	if err != nil {
		return nil, err
	}
	if err := validation.FromForm(g); err != nil {
		return nil, err
	}
	// Defaults injected by the form (active) flow back into the model.
	m := new(StoreService)
	if err := form.Decode(g.RawValue(), m); err != nil {
		return nil, err
	}
	return m, nil
}
