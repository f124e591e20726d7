package document

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

func (r *Repository) Create(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, kind, data)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	return r.db.DB.QueryRowContext(ctx, query, doc.ID, doc.Kind, data).Scan(&doc.CreatedAt, &doc.UpdatedAt)
}

// GetByID returns nil, nil when no document of that kind exists.
func (r *Repository) GetByID(ctx context.Context, kind string, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, kind, data, created_at, updated_at
		FROM documents
		WHERE kind = $1 AND id = $2`

	return r.scanDocument(r.db.DB.QueryRowContext(ctx, query, kind, id))
}

// Update replaces the data of a document. It reports false when nothing
// matched.
func (r *Repository) Update(ctx context.Context, doc *Document) (bool, error) {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE documents
		SET data = $3, updated_at = CURRENT_TIMESTAMP
		WHERE kind = $1 AND id = $2
		RETURNING created_at, updated_at`

	err = r.db.DB.QueryRowContext(ctx, query, doc.Kind, doc.ID, data).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Patch merges every change into its document in one transaction and
// returns how many documents were updated.
func (r *Repository) Patch(ctx context.Context, kind string, changes []Change) (int, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin patch: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = CURRENT_TIMESTAMP
		WHERE kind = $1 AND id = $2`

	updated := 0
	for _, ch := range changes {
		values, err := json.Marshal(ch.Values)
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, query, kind, ch.ID, values)
		if err != nil {
			return 0, fmt.Errorf("failed to patch %s: %w", ch.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		updated += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit patch: %w", err)
	}
	return updated, nil
}

// Search runs q against documents of one kind. Restrictions and sort are
// checked against columns.
func (r *Repository) Search(ctx context.Context, kind string, columns search.Columns, q search.QuerySearch) ([]*Document, int64, error) {
	w := &where{}
	w.clauses = append(w.clauses, "kind = "+w.arg(kind))
	for _, restriction := range q.QueryRestrictions {
		if err := w.restriction(columns, restriction); err != nil {
			return nil, 0, err
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM documents WHERE %s", w)
	var total int64
	if err := r.db.DB.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, err := w.orderBy(columns, q.Sort)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := pageBounds(q.Page)
	query := fmt.Sprintf(`
		SELECT id, kind, data, created_at, updated_at
		FROM documents
		WHERE %s
		ORDER BY %s
		LIMIT %s OFFSET %s`, w, order, w.arg(limit), w.arg(offset))

	rows, err := r.db.DB.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs, err := r.scanDocuments(rows)
	return docs, total, err
}

func (r *Repository) Delete(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	res, err := r.db.DB.ExecContext(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) scanDocument(row *sql.Row) (*Document, error) {
	doc := &Document{}
	var data []byte

	err := row.Scan(&doc.ID, &doc.Kind, &data, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &doc.Data); err != nil {
		return nil, fmt.Errorf("corrupt document %s: %w", doc.ID, err)
	}
	return doc, nil
}

func (r *Repository) scanDocuments(rows *sql.Rows) ([]*Document, error) {
	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		var data []byte
		if err := rows.Scan(&doc.ID, &doc.Kind, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return nil, fmt.Errorf("corrupt document %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
