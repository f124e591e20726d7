// Package document stores receipts and store services as JSONB documents
// and translates search queries into SQL over them.
package document

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Change is a partial update merged into a document's data.
type Change struct {
	ID     uuid.UUID
	Values map[string]any
}
