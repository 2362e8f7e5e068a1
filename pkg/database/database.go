package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/campusrecords/catalog/pkg/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type key int

const ctxKey key = 0

// WithLogging marks ctx so queries run with it are logged when query
// logging is enabled.
func WithLogging(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey, true)
}

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// LoggingEnabled reports whether ctx was marked with WithLogging.
func LoggingEnabled(ctx context.Context) bool {
	enabled, ok := ctx.Value(ctxKey).(bool)
	return ok && enabled
}

func (qh *logQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !LoggingEnabled(ctx) {
		return
	}

	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		data["error"] = event.Err.Error()
	}
	qh.log.Debug(event.Query, data)
}

func New(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	var err error

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err = openPostgres(cfg)
	default:
		db, err = openSQLite(cfg)
	}
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	// Retry a few times in case the database is still starting up.
	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err == nil {
			break
		}
		time.Sleep(cfg.DatabaseConnectRetryDelay)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.DatabaseDriver == config.DriverPostgres {
		return db, nil
	}

	// WAL lets readers proceed while a write is in progress.
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	_, err = db.Exec("PRAGMA busy_timeout=?", cfg.DatabaseBusyTimeout.Milliseconds())
	if err != nil {
		return nil, errors.Wrap(err, "failed to set busy_timeout")
	}

	return db, nil
}

func openSQLite(cfg *config.Config) (*bun.DB, error) {
	drv := sqliteshim.Driver()
	drvCtx, ok := drv.(driver.DriverContext)
	if !ok {
		return nil, errors.New("sqlite driver does not support OpenConnector")
	}
	connector, err := drvCtx.OpenConnector(cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqldb := sql.OpenDB(newRetryConnector(connector, cfg.DatabaseMaxRetries))
	// SQLite has a single writer; one connection serializes writes and keeps
	// an in-memory database shared across the pool.
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func openPostgres(cfg *config.Config) (*bun.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid database_url")
	}
	sqldb := stdlib.OpenDB(*connConfig)
	return bun.NewDB(sqldb, pgdialect.New()), nil
}
