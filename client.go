package supagres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	// Registers the "postgres" driver used by `Open`.
	_ "github.com/lib/pq"
)

// Default statement timeout applied by `Open` when `Options.Timeout` is
// zero.
const DefaultTimeout = 30 * time.Second

/*
Connection settings for `Open`. The timeout becomes a server-side
`statement_timeout` session parameter: statements exceeding it are canceled
by the server, which this package surfaces as `ErrTimeout`. A negative
timeout disables the limit.
*/
type Options struct {
	Host     string
	Port     int // default 5432
	Database string
	User     string
	Password string
	SSLMode  string        // default "disable"
	Timeout  time.Duration // default `DefaultTimeout`; negative disables
}

// Encodes the options in the key/value DSN format understood by lib/pq.
func (self Options) DSN() string {
	port := self.Port
	if port == 0 {
		port = 5432
	}
	sslMode := self.SSLMode
	if sslMode == `` {
		sslMode = `disable`
	}

	pairs := []string{
		`host=` + dsnValue(self.Host),
		`port=` + strconv.Itoa(port),
		`dbname=` + dsnValue(self.Database),
		`user=` + dsnValue(self.User),
		`password=` + dsnValue(self.Password),
		`sslmode=` + sslMode,
	}

	timeout := self.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		// lib/pq forwards unrecognized parameters to the server as session
		// run-time parameters.
		pairs = append(pairs, `statement_timeout=`+strconv.FormatInt(timeout.Milliseconds(), 10))
	}

	return strings.Join(pairs, ` `)
}

/*
Escapes a DSN value per the lib/pq key/value format: values with spaces,
quotes or backslashes are wrapped in single quotes with the specials
backslash-escaped.
*/
func dsnValue(val string) string {
	if val == `` {
		return `''`
	}
	if !strings.ContainsAny(val, ` '\`) {
		return val
	}
	val = strings.ReplaceAll(val, `\`, `\\`)
	val = strings.ReplaceAll(val, `'`, `\'`)
	return `'` + val + `'`
}

/*
Opens a Postgres connection pool and returns a `Client` that hands out
builders bound to it. Like `database/sql.Open`, this doesn't establish a
connection immediately; use `Client.DB().PingContext` to verify
reachability.
*/
func Open(opts Options) (*Client, error) {
	db, err := sql.Open(`postgres`, opts.DSN())
	if err != nil {
		return nil, err
	}
	return NewClient(db), nil
}

// Wraps an existing pool. Useful for custom pool configuration and for
// tests that substitute a mock.
func NewClient(db *sql.DB) *Client { return &Client{db} }

/*
Top-level entry point. Hands out `Builder` instances bound to its pool and
executes stored-procedure calls and raw statements. Safe for concurrent use;
the builders it hands out are not.
*/
type Client struct {
	db *sql.DB
}

// Returns the underlying pool.
func (self *Client) DB() *sql.DB { return self.db }

// Closes the underlying pool.
func (self *Client) Close() error { return self.db.Close() }

/*
Returns a `Builder` for the given relation, bound to this client for
execution. A single "." splits the name into (schema, relation).
*/
func (self *Client) Table(name string) *Builder {
	out := Table(name)
	out.db = self.db
	return out
}

// Executes an already-compiled statement, such as `Raw.Stmt`, returning the
// resulting rows.
func (self *Client) Fetch(ctx context.Context, stmt Stmt) ([]Row, error) {
	return queryRows(ctx, self.db, stmt)
}

// Compiles plain SQL via `CompileRaw` and executes it. Escape hatch for
// statements the fluent builder deliberately excludes.
func (self *Client) Raw(ctx context.Context, src string, args ...any) ([]Row, error) {
	stmt, err := CompileRaw(src, args...)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

/*
Invokes a stored procedure: compiles `SELECT "proc"(name := $1, ...)`,
executes it, and unwraps the single returned column keyed by the procedure
name. A call returning zero rows fails with `ErrNoResult`, which is distinct
from a call returning SQL null: the latter yields `nil, nil`.
*/
func (self *Client) Call(ctx context.Context, proc string, params Dict) (any, error) {
	stmt, err := CompileCall(proc, params)
	if err != nil {
		return nil, err
	}

	rows, err := queryRows(ctx, self.db, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResult.while(`calling procedure ` + strconv.Quote(proc))
	}
	return rows[0][proc], nil
}
