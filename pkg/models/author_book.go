package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AuthorBook is one row of the author/book join table. Links are created and
// removed on their own; deleting an author or a book removes only its links.
type AuthorBook struct {
	bun.BaseModel `bun:"table:author_book,alias:ab"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	AuthorID  int       `bun:",notnull" json:"author_id"`
	BookID    int       `bun:",notnull" json:"book_id"`
}
