package authorbooks

import (
	"context"
	"database/sql"
	"time"

	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/campusrecords/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// LinkAuthorBook links an author to a book. Linking a pair that is already
// linked does nothing.
func (svc *Service) LinkAuthorBook(ctx context.Context, authorID, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := requireAuthor(ctx, tx, authorID); err != nil {
			return err
		}
		if err := requireBook(ctx, tx, bookID); err != nil {
			return err
		}

		link := &models.AuthorBook{
			AuthorID:  authorID,
			BookID:    bookID,
			CreatedAt: time.Now(),
		}
		_, err := tx.NewInsert().
			Model(link).
			On("CONFLICT (author_id, book_id) DO NOTHING").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) UnlinkAuthorBook(ctx context.Context, authorID, bookID int) error {
	res, err := svc.db.NewDelete().
		Model((*models.AuthorBook)(nil)).
		Where("author_id = ?", authorID).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Author book link")
	}
	return nil
}

// ListBooksForAuthor returns the author's books ordered by book id.
func (svc *Service) ListBooksForAuthor(ctx context.Context, authorID int) ([]*models.Book, error) {
	if err := requireAuthor(ctx, svc.db, authorID); err != nil {
		return nil, err
	}

	books := []*models.Book{}
	err := svc.db.NewSelect().
		Model(&books).
		Join("INNER JOIN author_book AS ab ON ab.book_id = b.id").
		Where("ab.author_id = ?", authorID).
		Order("b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return books, nil
}

// ListAuthorsForBook returns the book's authors ordered by author id.
func (svc *Service) ListAuthorsForBook(ctx context.Context, bookID int) ([]*models.Author, error) {
	if err := requireBook(ctx, svc.db, bookID); err != nil {
		return nil, err
	}

	authors := []*models.Author{}
	err := svc.db.NewSelect().
		Model(&authors).
		Join("INNER JOIN author_book AS ab ON ab.author_id = a.id").
		Where("ab.book_id = ?", bookID).
		Order("a.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return authors, nil
}

func requireAuthor(ctx context.Context, db bun.IDB, id int) error {
	exists, err := db.NewSelect().
		Model((*models.Author)(nil)).
		Where("a.id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Author")
	}
	return nil
}

func requireBook(ctx context.Context, db bun.IDB, id int) error {
	exists, err := db.NewSelect().
		Model((*models.Book)(nil)).
		Where("b.id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Book")
	}
	return nil
}
