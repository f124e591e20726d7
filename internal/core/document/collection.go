package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/search"
)

var ErrNotFound = errors.New("document not found")

// Collection is a typed view over the documents of one kind.
type Collection[T any] struct {
	repo    *Repository
	kind    string
	columns search.Columns
}

func NewCollection[T any](repo *Repository, kind string, columns search.Columns) *Collection[T] {
	return &Collection[T]{repo: repo, kind: kind, columns: columns}
}

func (c *Collection[T]) Kind() string { return c.kind }

func (c *Collection[T]) Insert(ctx context.Context, id uuid.UUID, model *T) error {
	data, err := toData(model)
	if err != nil {
		return err
	}
	return c.repo.Create(ctx, &Document{ID: id, Kind: c.kind, Data: data})
}

func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	doc, err := c.repo.GetByID(ctx, c.kind, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, c.kind, id)
	}
	return fromData[T](doc.Data)
}

func (c *Collection[T]) Replace(ctx context.Context, id uuid.UUID, model *T) error {
	data, err := toData(model)
	if err != nil {
		return err
	}
	ok, err := c.repo.Update(ctx, &Document{ID: id, Kind: c.kind, Data: data})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.kind, id)
	}
	return nil
}

func (c *Collection[T]) Search(ctx context.Context, q search.QuerySearch) (search.Result[*T], error) {
	docs, total, err := c.repo.Search(ctx, c.kind, c.columns, q)
	if err != nil {
		return search.Result[*T]{}, err
	}
	out := search.Result[*T]{Content: make([]*T, 0, len(docs)), TotalElements: total}
	for _, doc := range docs {
		m, err := fromData[T](doc.Data)
		if err != nil {
			return search.Result[*T]{}, fmt.Errorf("%s %s: %w", c.kind, doc.ID, err)
		}
		out.Content = append(out.Content, m)
	}
	return out, nil
}

func (c *Collection[T]) Patch(ctx context.Context, changes []Change) (int, error) {
	return c.repo.Patch(ctx, c.kind, changes)
}

func toData(model any) (map[string]any, error) {
	raw, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func fromData[T any](data map[string]any) (*T, error) {
	m := new(T)
	if err := form.Decode(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
