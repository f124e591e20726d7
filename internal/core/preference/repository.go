// Package preference persists per-user search screen state: the previous
// search and the previously displayed columns.
package preference

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

// PreviousSearch returns nil, nil when the user never searched the screen.
func (r *Repository) PreviousSearch(ctx context.Context, userID uuid.UUID, screen string) (*search.PreviousSearch, error) {
	var raw []byte
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT search FROM previous_searches WHERE user_id = $1 AND screen = $2`,
		userID, screen,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && raw == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ps search.PreviousSearch
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("corrupt previous search for %s: %w", screen, err)
	}
	return &ps, nil
}

func (r *Repository) SavePreviousSearch(ctx context.Context, userID uuid.UUID, screen string, ps search.PreviousSearch) error {
	raw, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO previous_searches (user_id, screen, search)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, screen)
		DO UPDATE SET search = EXCLUDED.search, updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.DB.ExecContext(ctx, query, userID, screen, raw)
	return err
}

func (r *Repository) PreviousColumns(ctx context.Context, userID uuid.UUID, screen string) ([]string, error) {
	var raw []byte
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT columns FROM previous_searches WHERE user_id = $1 AND screen = $2`,
		userID, screen,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && raw == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cols []string
	if err := json.Unmarshal(raw, &cols); err != nil {
		return nil, fmt.Errorf("corrupt previous columns for %s: %w", screen, err)
	}
	return cols, nil
}

func (r *Repository) SavePreviousColumns(ctx context.Context, userID uuid.UUID, screen string, columns []string) error {
	raw, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO previous_searches (user_id, screen, columns)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, screen)
		DO UPDATE SET columns = EXCLUDED.columns, updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.DB.ExecContext(ctx, query, userID, screen, raw)
	return err
}

// ForUser binds the repository to one user as a search.PreviousSearchStore.
func (r *Repository) ForUser(userID uuid.UUID) *UserStore {
	return &UserStore{repo: r, userID: userID}
}

type UserStore struct {
	repo   *Repository
	userID uuid.UUID
}

var _ search.PreviousSearchStore = (*UserStore)(nil)

func (s *UserStore) PreviousSearch(ctx context.Context, screen string) (*search.PreviousSearch, error) {
	return s.repo.PreviousSearch(ctx, s.userID, screen)
}

func (s *UserStore) SavePreviousSearch(ctx context.Context, screen string, ps search.PreviousSearch) error {
	return s.repo.SavePreviousSearch(ctx, s.userID, screen, ps)
}

func (s *UserStore) PreviousColumns(ctx context.Context, screen string) ([]string, error) {
	return s.repo.PreviousColumns(ctx, s.userID, screen)
}

func (s *UserStore) SavePreviousColumns(ctx context.Context, screen string, columns []string) error {
	return s.repo.SavePreviousColumns(ctx, s.userID, screen, columns)
}
