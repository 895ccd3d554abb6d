package supagres

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func mockClient(t testing.TB) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewClient(db), mock
}

func Test_Options_DSN(t *testing.T) {
	t.Run(`defaults`, func(t *testing.T) {
		opts := Options{Host: `localhost`, Database: `app`, User: `app`, Password: `secret`}
		require.Equal(
			t,
			`host=localhost port=5432 dbname=app user=app password=secret sslmode=disable statement_timeout=30000`,
			opts.DSN(),
		)
	})

	t.Run(`explicit`, func(t *testing.T) {
		opts := Options{
			Host:     `db.internal`,
			Port:     6432,
			Database: `app`,
			User:     `svc`,
			Password: `secret`,
			SSLMode:  `require`,
			Timeout:  5 * time.Second,
		}
		require.Equal(
			t,
			`host=db.internal port=6432 dbname=app user=svc password=secret sslmode=require statement_timeout=5000`,
			opts.DSN(),
		)
	})

	// Special characters get the single-quote treatment of the key/value DSN
	// format.
	t.Run(`escaping`, func(t *testing.T) {
		opts := Options{Host: `localhost`, Database: `app`, User: `app`, Password: `pa s'wo\rd`}
		require.Equal(
			t,
			`host=localhost port=5432 dbname=app user=app password='pa s\'wo\\rd' sslmode=disable statement_timeout=30000`,
			opts.DSN(),
		)

		require.Equal(
			t,
			`host='' port=5432 dbname='' user='' password='' sslmode=disable statement_timeout=30000`,
			Options{}.DSN(),
		)
	})

	t.Run(`negative_timeout_disables`, func(t *testing.T) {
		opts := Options{Host: `localhost`, Database: `app`, User: `app`, Password: `secret`, Timeout: -1}
		require.Equal(
			t,
			`host=localhost port=5432 dbname=app user=app password=secret sslmode=disable`,
			opts.DSN(),
		)
	})
}

func Test_Client_Fetch_builder(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`SELECT * FROM "users" WHERE "id" = $1`).
		WithArgs(1).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`}).
				AddRow(int64(1), `mira`),
		)

	rows, err := client.Table(`users`).Eq(`id`, 1).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Row{{`id`: int64(1), `name`: `mira`}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Client_Fetch_empty(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`SELECT * FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}))

	rows, err := client.Table(`users`).Fetch(context.Background())
	require.NoError(t, err)

	// Zero matches is an empty, non-nil slice, not an error.
	require.NotNil(t, rows)
	require.Len(t, rows, 0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Client_Fetch_raw(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`select count(*) as count from users where age > $1`).
		WithArgs(18).
		WillReturnRows(sqlmock.NewRows([]string{`count`}).AddRow(int64(3)))

	raw := RawFrom(`select count(*) as count from users where age > $1`, 18)
	rows, err := client.Fetch(context.Background(), raw.Stmt())
	require.NoError(t, err)
	require.Equal(t, []Row{{`count`: int64(3)}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Client_Raw(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`select id from users where age > $1 and city = $2`).
		WithArgs(18, `Prague`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(int64(7)))

	rows, err := client.Raw(
		context.Background(),
		`select id from users where age > $1 and city = $2`,
		18, `Prague`,
	)
	require.NoError(t, err)
	require.Equal(t, []Row{{`id`: int64(7)}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = client.Raw(context.Background(), `select id`, `unused`)
	require.ErrorIs(t, err, ErrUnusedArgument)
}

func Test_Builder_Insert_exec(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`INSERT INTO "users" ("name") VALUES ($1) RETURNING *`).
		WithArgs(`mira`).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`}).
				AddRow(int64(1), `mira`),
		)

	rows, err := client.Table(`users`).Insert(context.Background(), Row{`name`: `mira`})
	require.NoError(t, err)
	require.Equal(t, []Row{{`id`: int64(1), `name`: `mira`}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Builder_Update_exec(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`UPDATE "users" SET "name" = $1 WHERE "id" = $2 RETURNING *`).
		WithArgs(`mira`, 1).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`}).
				AddRow(int64(1), `mira`),
		)

	rows, err := client.Table(`users`).Eq(`id`, 1).Update(context.Background(), Row{`name`: `mira`})
	require.NoError(t, err)
	require.Equal(t, []Row{{`id`: int64(1), `name`: `mira`}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Builder_Delete_exec(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`DELETE FROM "users" WHERE "id" = $1 RETURNING *`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(int64(1)))

	rows, err := client.Table(`users`).Eq(`id`, 1).Delete(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Row{{`id`: int64(1)}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_Builder_unbound(t *testing.T) {
	_, err := Table(`users`).Fetch(context.Background())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func Test_Client_Call(t *testing.T) {
	t.Run(`result`, func(t *testing.T) {
		client, mock := mockClient(t)

		mock.ExpectQuery(`SELECT "add_one"("val" := $1)`).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{`add_one`}).AddRow(int64(11)))

		out, err := client.Call(context.Background(), `add_one`, Dict{`val`: 10})
		require.NoError(t, err)
		require.Equal(t, int64(11), out)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	// A procedure returning SQL null yields a nil result without an error.
	// Distinct from returning no rows at all, which is `ErrNoResult`.
	t.Run(`null_result`, func(t *testing.T) {
		client, mock := mockClient(t)

		mock.ExpectQuery(`SELECT "fn"()`).
			WillReturnRows(sqlmock.NewRows([]string{`fn`}).AddRow(nil))

		out, err := client.Call(context.Background(), `fn`, nil)
		require.NoError(t, err)
		require.Nil(t, out)
	})

	t.Run(`no_result`, func(t *testing.T) {
		client, mock := mockClient(t)

		mock.ExpectQuery(`SELECT "fn"()`).
			WillReturnRows(sqlmock.NewRows([]string{`fn`}))

		_, err := client.Call(context.Background(), `fn`, nil)
		require.ErrorIs(t, err, ErrNoResult)
	})
}

// Postgres reports a statement timeout as SQLSTATE 57014 (query_canceled).
type queryCanceledErr struct{}

func (queryCanceledErr) Error() string    { return `pq: canceling statement due to user request` }
func (queryCanceledErr) SQLState() string { return `57014` }

type codedErr struct{ code string }

func (self codedErr) Error() string { return `driver failure` }
func (self codedErr) Code() string  { return self.code }

func Test_Client_timeout(t *testing.T) {
	client, mock := mockClient(t)

	mock.ExpectQuery(`SELECT * FROM "users"`).
		WillReturnError(queryCanceledErr{})

	_, err := client.Table(`users`).Fetch(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	require.NoError(t, mock.ExpectationsWereMet())
}

func Test_execErr(t *testing.T) {
	require.NoError(t, execErr(nil))

	require.ErrorIs(t, execErr(context.DeadlineExceeded), ErrTimeout)
	require.ErrorIs(t, execErr(queryCanceledErr{}), ErrTimeout)
	require.ErrorIs(t, execErr(codedErr{`57014`}), ErrTimeout)
	require.ErrorIs(
		t,
		execErr(errors.New(`pq: canceling statement due to statement timeout`)),
		ErrTimeout,
	)

	// Non-timeout failures propagate unmodified.
	other := codedErr{`23505`}
	require.Equal(t, error(other), execErr(other))
	require.NotErrorIs(t, execErr(other), ErrTimeout)
}
