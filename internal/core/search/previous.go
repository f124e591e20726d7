package search

import (
	"context"
	"slices"
	"sync"
)

// PreviousSearch is what a screen restores on the next visit. Filters keep
// unpopulated lines too.
type PreviousSearch struct {
	Filters []LineState `json:"filters"`
	Sort    Sort        `json:"sort"`
	Page    Page        `json:"page"`
}

// PreviousSearchStore persists per-screen search state. A missing entry is
// (nil, nil).
type PreviousSearchStore interface {
	PreviousSearch(ctx context.Context, screen string) (*PreviousSearch, error)
	SavePreviousSearch(ctx context.Context, screen string, ps PreviousSearch) error
	PreviousColumns(ctx context.Context, screen string) ([]string, error)
	SavePreviousColumns(ctx context.Context, screen string, columns []string) error
}

// MemoryStore keeps previous searches in process.
type MemoryStore struct {
	mu       sync.Mutex
	searches map[string]PreviousSearch
	columns  map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{searches: map[string]PreviousSearch{}, columns: map[string][]string{}}
}

func (m *MemoryStore) PreviousSearch(_ context.Context, screen string) (*PreviousSearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps, ok := m.searches[screen]
	if !ok {
		return nil, nil
	}
	ps.Filters = slices.Clone(ps.Filters)
	return &ps, nil
}

func (m *MemoryStore) SavePreviousSearch(_ context.Context, screen string, ps PreviousSearch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps.Filters = slices.Clone(ps.Filters)
	m.searches[screen] = ps
	return nil
}

func (m *MemoryStore) PreviousColumns(_ context.Context, screen string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.columns[screen]), nil
}

func (m *MemoryStore) SavePreviousColumns(_ context.Context, screen string, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.columns[screen] = slices.Clone(columns)
	return nil
}
