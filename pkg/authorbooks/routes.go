package authorbooks

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers link routes under the authors and books
// groups.
func RegisterRoutesWithGroups(authorsGroup, booksGroup *echo.Group, db *bun.DB) {
	h := &handler{
		linkService: NewService(db),
	}

	authorsGroup.GET("/:id/books", h.booksForAuthor)
	authorsGroup.PUT("/:id/books/:book_id", h.link)
	authorsGroup.DELETE("/:id/books/:book_id", h.unlink)
	booksGroup.GET("/:id/authors", h.authorsForBook)
}
