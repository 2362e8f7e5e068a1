package books

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/campusrecords/catalog/pkg/models"
	"github.com/campusrecords/catalog/pkg/search"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	book.Title = strings.TrimSpace(book.Title)
	if book.Title == "" {
		return errcodes.ValidationError(`"title" is required`)
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	book.ID = 0
	book.TitleSearch = search.Fold(book.Title)

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	if opts.ID == nil {
		return nil, errors.New("book id is required")
	}

	book := &models.Book{}
	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.id = ?", *opts.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC")

	q = search.WhereContains(q, "b.title_search", opts.Search)
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	book.UpdatedAt = time.Now()
	book.TitleSearch = search.Fold(book.Title)

	columns := make([]string, 0, len(opts.Columns)+2)
	columns = append(columns, opts.Columns...)
	if slices.Contains(columns, "title") && !slices.Contains(columns, "title_search") {
		columns = append(columns, "title_search")
	}
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// DeleteBook deletes the book and its author links. Authors are left alone.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.AuthorBook)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}
