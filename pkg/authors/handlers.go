package authors

import (
	"net/http"
	"strconv"

	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/campusrecords/catalog/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	authorService Repository
}

func parseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, errcodes.NotFound("Author")
	}
	return id, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author := &models.Author{AuthorName: params.AuthorName}
	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("author created", logger.Data{"author_id": author.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, author))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"authors": authors,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateAuthorOptions{Columns: []string{}}

	if params.AuthorName != nil {
		name := NormalizeName(params.AuthorName)
		if !sameName(name, author.AuthorName) {
			author.AuthorName = name
			opts.Columns = append(opts.Columns, "author_name")
		}
	}

	err = h.authorService.UpdateAuthor(ctx, author, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	// Reload the model
	author, err = h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = h.authorService.DeleteAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("author deleted", logger.Data{"author_id": id})

	return c.NoContent(http.StatusNoContent)
}

func sameName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
