package supagres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

/*
The narrow slice of `*sql.DB` this package needs for execution. Accepts
statement text and positionally-bound arguments. Satisfied by `*sql.DB`,
`*sql.Tx` and `*sql.Conn`.
*/
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

/*
Executes a compiled statement and materializes the resulting rows into
column-keyed maps, the rough analogue of psycopg2's RealDictCursor. Driver
failures classified as statement-timeout cancellation come back as
`ErrTimeout`; everything else propagates as-is.
*/
func queryRows(ctx context.Context, db Querier, stmt Stmt) ([]Row, error) {
	if db == nil {
		return nil, ErrInvalidInput.while(`executing statement`).because(
			errf(`builder is not bound to a client`),
		)
	}

	rows, err := db.QueryContext(ctx, stmt.Text, stmt.Args...)
	if err != nil {
		return nil, execErr(err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, execErr(err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for ind := range vals {
		ptrs[ind] = &vals[ind]
	}

	out := []Row{}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for ind, col := range cols {
			row[col] = vals[ind]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

/*
Translates driver-specific timeout signals into the uniform `ErrTimeout`.
All other failures (constraint violations, connectivity loss) propagate
unmodified: this package is a translator, not a resilience layer.
*/
func execErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || isQueryCanceled(err) {
		return ErrTimeout.while(`executing statement`).because(err)
	}
	return err
}

// SQLSTATE for Postgres `query_canceled`, raised on statement timeout.
const pgQueryCanceled = `57014`

// Implemented by pq.Error and pgx errors.
type sqlStateError interface{ SQLState() string }

// Implemented by some drivers that expose the code as a method.
type errorCoder interface{ Code() string }

func isQueryCanceled(err error) bool {
	if err == nil {
		return false
	}

	if val, ok := asError[sqlStateError](err); ok {
		if val.SQLState() == pgQueryCanceled {
			return true
		}
	}

	if val, ok := asError[errorCoder](err); ok {
		if val.Code() == pgQueryCanceled {
			return true
		}
	}

	// Fallback for drivers that don't implement the interfaces.
	return strings.Contains(err.Error(), `canceling statement due to statement timeout`)
}

// Attempts to extract an error implementing interface T from the error
// chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if val, ok := err.(T); ok {
			return val, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
