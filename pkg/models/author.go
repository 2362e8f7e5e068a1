package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Author is a person credited on books. AuthorName is optional; a NULL name
// is a valid record.
type Author struct {
	bun.BaseModel `bun:"table:author,alias:a"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	AuthorName *string   `bun:"author_name" json:"author_name"`

	// AuthorNameSearch is the case-folded author_name used by name search.
	AuthorNameSearch *string `bun:"author_name_search" json:"-"`
}
