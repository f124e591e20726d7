package receipt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/document"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/validation"
)

var ErrNotFound = errors.New("receipt not found")

type Service struct {
	docs      *document.Collection[ReceiptOfMaterial]
	forms     *form.Factory
	validator *validation.Validator
}

// NewService registers the receipt forms and schema and returns a service
// storing receipts in repo.
func NewService(repo *document.Repository, forms *form.Factory, validator *validation.Validator) *Service {
	RegisterForms(forms)
	validator.MustRegister(FormReceipt, Schema())
	return &Service{
		docs:      document.NewCollection[ReceiptOfMaterial](repo, Kind, Columns()),
		forms:     forms,
		validator: validator,
	}
}

// Create validates data with the ADD rules and stores a new receipt.
func (s *Service) Create(ctx context.Context, data map[string]any) (*ReceiptOfMaterial, error) {
	m, err := s.evaluate(ctx, data, form.AccessAdd)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	m.ID = &id
	assignLineIDs(m)

	if err := s.docs.Insert(ctx, id, m); err != nil {
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ReceiptOfMaterial, error) {
	m, err := s.docs.Get(ctx, id)
	if errors.Is(err, document.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

// Update validates data with the EDIT rules. Store, vendor and receipt type
// are kept from the stored receipt.
func (s *Service) Update(ctx context.Context, id uuid.UUID, data map[string]any) (*ReceiptOfMaterial, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := s.evaluate(ctx, data, form.AccessEdit)
	if err != nil {
		return nil, err
	}
	m.ID = &id
	m.Store = existing.Store
	m.Vendor = existing.Vendor
	m.ReceiptType = existing.ReceiptType
	assignLineIDs(m)

	if err := s.docs.Replace(ctx, id, m); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}
	return m, nil
}

func (s *Service) Search(ctx context.Context, q search.QuerySearch) (search.Result[*ReceiptOfMaterial], error) {
	return s.docs.Search(ctx, q)
}

// evaluate checks the payload shape, builds the receipt form for mode and
// returns the model it holds when the form is valid.
func (s *Service) evaluate(ctx context.Context, data map[string]any, mode form.AccessMode) (*ReceiptOfMaterial, error) {
	if err := s.validator.Validate(FormReceipt, data); err != nil {
		return nil, err
	}
	decoded, err := s.forms.Decode(FormReceipt, data)
	if err != nil {
		return nil, &validation.ValidationErrors{Errors: []validation.ValidationError{{Field: "(root)", Message: err.Error()}}}
	}

	formCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, err := s.forms.Group(formCtx, FormReceipt, decoded, form.Options{Mode: mode})
	if err != nil {
		return nil, err
	}
	if err := validation.FromForm(g); err != nil {
		return nil, err
	}
	return decoded.(*ReceiptOfMaterial), nil
}

func assignLineIDs(m *ReceiptOfMaterial) {
	for _, p := range m.ReceiptProducts {
		if p != nil && p.ID == nil {
			id := uuid.New()
			p.ID = &id
		}
	}
}
