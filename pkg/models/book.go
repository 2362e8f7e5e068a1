package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:book,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Title     string    `bun:",notnull" json:"title"`

	TitleSearch string `bun:",notnull" json:"-"`
}
