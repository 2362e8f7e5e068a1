package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/campusrecords/catalog/pkg/authorbooks"
	"github.com/campusrecords/catalog/pkg/authors"
	"github.com/campusrecords/catalog/pkg/binder"
	"github.com/campusrecords/catalog/pkg/books"
	"github.com/campusrecords/catalog/pkg/config"
	"github.com/campusrecords/catalog/pkg/database"
	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

// queryLogging marks request contexts so the database query hook logs them.
func queryLogging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		c.SetRequest(req.WithContext(database.WithLogging(req.Context())))
		return next(c)
	}
}

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	if cfg.DatabaseDebug {
		e.Use(queryLogging)
	}

	health.RegisterRoutes(e)
	config.RegisterRoutes(e, cfg)

	authorsGroup := e.Group("/authors")
	authors.RegisterRoutesWithGroup(authorsGroup, db)

	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, db)

	authorbooks.RegisterRoutesWithGroups(authorsGroup, booksGroup, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
