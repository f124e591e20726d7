package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	ErrUnregisteredType = errors.New("unregistered form type")
	ErrModelType        = errors.New("model type mismatch")
)

// Creator builds the form group of one entity type. ctx is the destroy
// signal of the owning scope; rules registered by the creator must use it.
type Creator func(ctx context.Context, f *Factory, model any, opts Options) (*Group, error)

type entry struct {
	create Creator
	decode func(data map[string]any) (any, error)
}

// Factory dispatches entity-type names to creators. Feature packages
// register at start-up; lookups happen afterwards.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]entry
}

func NewFactory() *Factory {
	return &Factory{creators: map[string]entry{}}
}

// Register stores c under name. A later registration for the same name
// replaces the earlier one.
func (f *Factory) Register(name string, c Creator) {
	f.register(name, entry{create: c})
}

func (f *Factory) register(name string, e entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.creators[name]; ok {
		slog.Debug("form creator replaced", "type", name)
	}
	f.creators[name] = e
}

// Register binds a creator taking a *T model. The model may be passed as T,
// *T or nil (a zero T). The type also becomes decodable through
// Factory.Decode.
func Register[T any](f *Factory, name string, create func(ctx context.Context, f *Factory, model *T, opts Options) (*Group, error)) {
	f.register(name, entry{
		create: func(ctx context.Context, f *Factory, model any, opts Options) (*Group, error) {
			switch m := model.(type) {
			case nil:
				return create(ctx, f, new(T), opts)
			case *T:
				if m == nil {
					m = new(T)
				}
				return create(ctx, f, m, opts)
			case T:
				return create(ctx, f, &m, opts)
			}
			return nil, fmt.Errorf("%w: %s expects %T, got %T", ErrModelType, name, new(T), model)
		},
		decode: func(data map[string]any) (any, error) {
			m := new(T)
			if err := Decode(data, m); err != nil {
				return nil, err
			}
			return m, nil
		},
	})
}

func (f *Factory) lookup(name string) (entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.creators[name]
	if !ok {
		return entry{}, fmt.Errorf("%w: %q", ErrUnregisteredType, name)
	}
	return e, nil
}

// Has reports whether name is registered.
func (f *Factory) Has(name string) bool {
	_, err := f.lookup(name)
	return err == nil
}

// Types lists registered names, sorted.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.creators))
	for n := range f.creators {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Group builds the form of entity type name for model.
func (f *Factory) Group(ctx context.Context, name string, model any, opts Options) (*Group, error) {
	e, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.create(ctx, f, model, opts)
}

// MustGroup is Group for start-up wiring and tests; it panics on error.
func (f *Factory) MustGroup(ctx context.Context, name string, model any, opts Options) *Group {
	g, err := f.Group(ctx, name, model, opts)
	if err != nil {
		panic(err)
	}
	return g
}

// Array builds one group per model, preserving order.
func (f *Factory) Array(ctx context.Context, name string, models []any, opts Options, validators ...Validator) (*Array, error) {
	e, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	items := make([]Control, 0, len(models))
	for i, m := range models {
		g, err := e.create(ctx, f, m, opts)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		items = append(items, g)
	}
	return NewArray(items, validators...), nil
}

// ArrayOf is Array for a typed slice.
func ArrayOf[T any](ctx context.Context, f *Factory, name string, models []T, opts Options, validators ...Validator) (*Array, error) {
	anys := make([]any, len(models))
	for i, m := range models {
		anys[i] = m
	}
	return f.Array(ctx, name, anys, opts, validators...)
}

// Decode turns a JSON-shaped payload into the model registered for name.
func (f *Factory) Decode(name string, data map[string]any) (any, error) {
	e, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	if e.decode == nil {
		return data, nil
	}
	return e.decode(data)
}
