package authors

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

// Repository is the persistence contract for authors.
type Repository interface {
	CreateAuthor(ctx context.Context, author *models.Author) error
	RetrieveAuthor(ctx context.Context, opts RetrieveAuthorOptions) (*models.Author, error)
	ListAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error)
	UpdateAuthor(ctx context.Context, author *models.Author, opts UpdateAuthorOptions) error
	DeleteAuthor(ctx context.Context, id int) error
}

var _ Repository = (*Service)(nil)

type RetrieveAuthorOptions struct {
	ID *int
}

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type UpdateAuthorOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// NormalizeName trims the name and maps blank names to nil.
func NormalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateAuthor inserts the author. Any ID already on the struct is ignored;
// the database assigns a new one and it is written back.
func (svc *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	now := time.Now()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = author.CreatedAt
	author.ID = 0
	author.AuthorName = NormalizeName(author.AuthorName)
	author.AuthorNameSearch = search.FoldPtr(author.AuthorName)

	_, err := svc.db.
		NewInsert().
		Model(author).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveAuthor(ctx context.Context, opts RetrieveAuthorOptions) (*models.Author, error) {
	if opts.ID == nil {
		return nil, errors.New("author id is required")
	}

	author := &models.Author{}
	err := svc.db.
		NewSelect().
		Model(author).
		Where("a.id = ?", *opts.ID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}

	return author, nil
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, error) {
	a, _, err := svc.listAuthorsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	opts.includeTotal = true
	return svc.listAuthorsWithTotal(ctx, opts)
}

func (svc *Service) listAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	authors := []*models.Author{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&authors).
		Order("a.id ASC")

	q = search.WhereContains(q, "a.author_name_search", opts.Search)
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

	return authors, total, nil
}

// UpdateAuthor writes the given columns (plus updated_at). The ID is never
// changed.
func (svc *Service) UpdateAuthor(ctx context.Context, author *models.Author, opts UpdateAuthorOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	author.UpdatedAt = time.Now()
	author.AuthorName = NormalizeName(author.AuthorName)
	author.AuthorNameSearch = search.FoldPtr(author.AuthorName)

	columns := make([]string, 0, len(opts.Columns)+2)
	columns = append(columns, opts.Columns...)
	if slices.Contains(columns, "author_name") && !slices.Contains(columns, "author_name_search") {
		columns = append(columns, "author_name_search")
	}
	columns = append(columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(author).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Author")
	}
	return nil
}

// DeleteAuthor deletes the author and its book links. Books are left alone.
func (svc *Service) DeleteAuthor(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.AuthorBook)(nil)).
			Where("author_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Author)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Author")
		}
		return nil
	})
}
