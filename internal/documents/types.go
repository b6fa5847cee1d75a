package documents

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DocumentRecord is a persisted editor document. Body holds the serialized
// node tree produced by document.Marshal.
type DocumentRecord struct {
	bun.BaseModel `bun:"table:documents,alias:doc"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	Title     string    `bun:"title" json:"title,omitempty"`
	Summary   string    `bun:"summary" json:"summary,omitempty"`
	Tags      []string  `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Body      string    `bun:"body,notnull" json:"body"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (r *DocumentRecord) clone() *DocumentRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Tags = slices.Clone(r.Tags)
	return &cp
}
