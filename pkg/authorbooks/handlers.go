package authorbooks

import (
	"net/http"
	"strconv"

	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	linkService *Service
}

func intParam(c echo.Context, name, resource string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, errcodes.NotFound(resource)
	}
	return id, nil
}

func linkParams(c echo.Context) (int, int, error) {
	authorID, err := intParam(c, "id", "Author")
	if err != nil {
		return 0, 0, err
	}
	bookID, err := intParam(c, "book_id", "Book")
	if err != nil {
		return 0, 0, err
	}
	return authorID, bookID, nil
}

func (h *handler) booksForAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	authorID, err := intParam(c, "id", "Author")
	if err != nil {
		return err
	}

	books, err := h.linkService.ListBooksForAuthor(ctx, authorID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) authorsForBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookID, err := intParam(c, "id", "Book")
	if err != nil {
		return err
	}

	authors, err := h.linkService.ListAuthorsForBook(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, authors))
}

func (h *handler) link(c echo.Context) error {
	ctx := c.Request().Context()
	authorID, bookID, err := linkParams(c)
	if err != nil {
		return err
	}

	if err := h.linkService.LinkAuthorBook(ctx, authorID, bookID); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("author linked to book", logger.Data{"author_id": authorID, "book_id": bookID})

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) unlink(c echo.Context) error {
	ctx := c.Request().Context()
	authorID, bookID, err := linkParams(c)
	if err != nil {
		return err
	}

	if err := h.linkService.UnlinkAuthorBook(ctx, authorID, bookID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
