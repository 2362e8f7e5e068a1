package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// retryPolicy retries SQLite operations that fail because another connection
// holds the write lock.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func newRetryPolicy(maxRetries int) retryPolicy {
	return retryPolicy{
		maxRetries: maxRetries,
		baseDelay:  50 * time.Millisecond,
		maxDelay:   2 * time.Second,
	}
}

const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

// sqliteCoder matches modernc.org/sqlite errors, whose Code may be an
// extended result code.
type sqliteCoder interface {
	Code() int
}

// isBusyError reports whether err is SQLITE_BUSY or SQLITE_LOCKED. Errors
// carrying a result code are judged by it; others (mattn) by their message.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	var coder sqliteCoder
	if errors.As(err, &coder) {
		primary := coder.Code() & 0xff
		return primary == sqliteBusy || primary == sqliteLocked
	}
	msg := err.Error()
	for _, pattern := range []string{
		"database is locked",
		"database table is locked",
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// delay returns the wait before retry number attempt (zero based), doubling
// each time with up to 25% jitter and capped at maxDelay.
func (p retryPolicy) delay(attempt int) time.Duration {
	d := p.baseDelay * time.Duration(1<<attempt)
	if quarter := int64(d / 4); quarter > 0 {
		d += time.Duration(rand.Int63n(quarter))
	}
	if d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt == p.maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	return err
}

type retryConnector struct {
	connector driver.Connector
	policy    retryPolicy
}

func newRetryConnector(connector driver.Connector, maxRetries int) *retryConnector {
	return &retryConnector{connector: connector, policy: newRetryPolicy(maxRetries)}
}

func (rc *retryConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := rc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &retryConn{conn: conn, policy: rc.policy}, nil
}

func (rc *retryConnector) Driver() driver.Driver {
	return rc.connector.Driver()
}

type retryConn struct {
	conn   driver.Conn
	policy retryPolicy
}

func (c *retryConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &retryStmt{stmt: stmt, policy: c.policy}, nil
}

func (c *retryConn) Close() error {
	return c.conn.Close()
}

func (c *retryConn) Begin() (driver.Tx, error) {
	var tx driver.Tx
	err := c.policy.do(context.Background(), func() (err error) {
		tx, err = c.conn.Begin() //nolint:staticcheck // required by driver.Conn
		return err
	})
	return tx, err
}

func (c *retryConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	beginner, ok := c.conn.(driver.ConnBeginTx)
	if !ok {
		return c.Begin()
	}
	var tx driver.Tx
	err := c.policy.do(ctx, func() (err error) {
		tx, err = beginner.BeginTx(ctx, opts)
		return err
	})
	return tx, err
}

func (c *retryConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	preparer, ok := c.conn.(driver.ConnPrepareContext)
	if !ok {
		return c.Prepare(query)
	}
	stmt, err := preparer.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &retryStmt{stmt: stmt, policy: c.policy}, nil
}

func (c *retryConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var result driver.Result
	err := c.policy.do(ctx, func() (err error) {
		result, err = execer.ExecContext(ctx, query, args)
		return err
	})
	return result, err
}

func (c *retryConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	var rows driver.Rows
	err := c.policy.do(ctx, func() (err error) {
		rows, err = queryer.QueryContext(ctx, query, args)
		return err
	})
	return rows, err
}

func (c *retryConn) Ping(ctx context.Context) error {
	if pinger, ok := c.conn.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (c *retryConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

func (c *retryConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}

type retryStmt struct {
	stmt   driver.Stmt
	policy retryPolicy
}

func (s *retryStmt) Close() error {
	return s.stmt.Close()
}

func (s *retryStmt) NumInput() int {
	return s.stmt.NumInput()
}

func (s *retryStmt) Exec(args []driver.Value) (driver.Result, error) {
	var result driver.Result
	err := s.policy.do(context.Background(), func() (err error) {
		result, err = s.stmt.Exec(args) //nolint:staticcheck // required by driver.Stmt
		return err
	})
	return result, err
}

func (s *retryStmt) Query(args []driver.Value) (driver.Rows, error) {
	var rows driver.Rows
	err := s.policy.do(context.Background(), func() (err error) {
		rows, err = s.stmt.Query(args) //nolint:staticcheck // required by driver.Stmt
		return err
	})
	return rows, err
}

func (s *retryStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := s.stmt.(driver.StmtExecContext)
	if !ok {
		return s.Exec(namedToValues(args))
	}
	var result driver.Result
	err := s.policy.do(ctx, func() (err error) {
		result, err = execer.ExecContext(ctx, args)
		return err
	})
	return result, err
}

func (s *retryStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := s.stmt.(driver.StmtQueryContext)
	if !ok {
		return s.Query(namedToValues(args))
	}
	var rows driver.Rows
	err := s.policy.do(ctx, func() (err error) {
		rows, err = queryer.QueryContext(ctx, args)
		return err
	})
	return rows, err
}

func namedToValues(args []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}
	return values
}
