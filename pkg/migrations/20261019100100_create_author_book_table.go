package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE author_book (
				` + idColumn(db) + `,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				author_id INTEGER NOT NULL REFERENCES author (id),
				book_id INTEGER NOT NULL REFERENCES book (id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_author_book_author_id_book_id ON author_book (author_id, book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_author_book_book_id ON author_book (book_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS author_book`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
