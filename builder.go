package supagres

import (
	"context"
	"strings"
)

/*
Returns a `Builder` bound to the given relation, which may be
schema-qualified: a single "." splits the name into (schema, relation), its
absence means an unqualified relation. The builder compiles statements but
can't execute them; for execution, obtain builders from `Client.Table`.

A builder accumulates state for exactly one logical statement. Filters and
orderings only ever append across chained calls; projection, limit and
offset are last-write-wins. Compilation is idempotent: terminal methods
compile fresh from the same accumulated state and never consume it.
*/
func Table(name string) *Builder {
	var out Builder
	if schema, table, ok := strings.Cut(name, `.`); ok {
		out.schema, out.table = schema, table
	} else {
		out.table = name
	}
	return &out
}

// Short-lived, single-owner accumulator for one statement. See `Table`.
type Builder struct {
	db      Querier
	schema  string
	table   string
	cols    Cols
	filters Filters
	ords    Ords
	limit   *int
	offset  *int
}

/*
Sets the projection. Calling with no arguments restores the default "all
columns". Last-write-wins: repeated calls overwrite the previous projection,
unlike filters and orderings, which accumulate.
*/
func (self *Builder) Select(cols ...string) *Builder {
	self.cols = Cols(cols)
	return self
}

/*
Appends an arbitrary predicate. The operand shape must match the operator;
panics with `ErrInvalidFilter` otherwise, at the call site rather than at
compile time. The typed shortcuts (`Eq`, `In`, `IsNull`, ...) are usually
more convenient.
*/
func (self *Builder) Filter(col string, op Op, val any) *Builder {
	self.filters.Add(Filter{col, op, val})
	return self
}

// Appends `col = val`.
func (self *Builder) Eq(col string, val any) *Builder { return self.Filter(col, OpEq, val) }

// Appends `col != val`.
func (self *Builder) Neq(col string, val any) *Builder { return self.Filter(col, OpNeq, val) }

// Appends `col > val`.
func (self *Builder) Gt(col string, val any) *Builder { return self.Filter(col, OpGt, val) }

// Appends `col >= val`.
func (self *Builder) Gte(col string, val any) *Builder { return self.Filter(col, OpGte, val) }

// Appends `col < val`.
func (self *Builder) Lt(col string, val any) *Builder { return self.Filter(col, OpLt, val) }

// Appends `col <= val`.
func (self *Builder) Lte(col string, val any) *Builder { return self.Filter(col, OpLte, val) }

// Appends `col LIKE pattern`.
func (self *Builder) Like(col string, pattern string) *Builder {
	return self.Filter(col, OpLike, pattern)
}

// Appends `col ILIKE pattern`.
func (self *Builder) Ilike(col string, pattern string) *Builder {
	return self.Filter(col, OpIlike, pattern)
}

/*
Appends `col IN (...)` with one placeholder per value, in the given order.
Panics with `ErrInvalidFilter` when called with no values: SQL has no empty
`IN` list.
*/
func (self *Builder) In(col string, vals ...any) *Builder {
	return self.Filter(col, OpIn, vals)
}

// Appends `col NOT IN (...)`. Same rules as `In`.
func (self *Builder) NotIn(col string, vals ...any) *Builder {
	return self.Filter(col, OpNotIn, vals)
}

// Appends `col IS NULL`, contributing no placeholder.
func (self *Builder) IsNull(col string) *Builder { return self.Filter(col, OpIs, nil) }

// Appends `col IS NOT NULL`, contributing no placeholder.
func (self *Builder) IsNotNull(col string) *Builder { return self.Filter(col, OpIsNot, nil) }

// Appends an ascending ordering. Orderings accumulate in declaration order.
func (self *Builder) Order(col string) *Builder {
	self.ords = append(self.ords, Ord{col, DirAsc})
	return self
}

// Appends a descending ordering.
func (self *Builder) OrderDesc(col string) *Builder {
	self.ords = append(self.ords, Ord{col, DirDesc})
	return self
}

// Sets the limit. Last-write-wins. Panics with `ErrInvalidInput` on a
// negative value.
func (self *Builder) Limit(val int) *Builder {
	self.limit = validPageSize(val, `setting limit`)
	return self
}

// Sets the offset. Last-write-wins. Panics with `ErrInvalidInput` on a
// negative value.
func (self *Builder) Offset(val int) *Builder {
	self.offset = validPageSize(val, `setting offset`)
	return self
}

func validPageSize(val int, while string) *int {
	if val < 0 {
		panic(ErrInvalidInput.while(while).because(errf(`expected a non-negative value, got %v`, val)))
	}
	return &val
}

/*
Compiles `SELECT projection FROM relation [WHERE ...] [ORDER BY ...]
[LIMIT $N] [OFFSET $N]`. The limit and offset placeholders come after all
WHERE args, limit before offset; argument positions must match placeholder
positions exactly since drivers bind positionally.
*/
func (self *Builder) CompileSelect() (_ Stmt, err error) {
	defer rec(&err)

	bui := MakeBui(128, len(self.filters)+2)
	bui.Str(`SELECT`)
	bui.Expr(self.cols)
	bui.Str(`FROM`)
	bui.Expr(self.relation())
	self.appendWhere(&bui)

	if !self.ords.IsEmpty() {
		bui.Expr(self.ords)
	}
	if self.limit != nil {
		bui.Str(`LIMIT`)
		bui.Arg(*self.limit)
	}
	if self.offset != nil {
		bui.Str(`OFFSET`)
		bui.Arg(*self.offset)
	}

	return Stmt{bui.String(), bui.Args}, nil
}

/*
Compiles `INSERT INTO relation (cols) VALUES (...), ... RETURNING *` with
one placeholder group per row. Column order is the sorted key order of the
first row; every row must have exactly that key set, otherwise the compile
fails with `ErrSchemaMismatch`. Zero rows fail with `ErrEmptyPayload`.
*/
func (self *Builder) CompileInsert(rows ...Row) (_ Stmt, err error) {
	defer rec(&err)

	cols := insertCols(rows, `compiling insert`)
	bui := MakeBui(128, len(rows)*len(cols))
	self.appendInsert(&bui, cols, rows)
	bui.Expr(ReturningStar{})

	return Stmt{bui.String(), bui.Args}, nil
}

/*
Compiles the INSERT form plus `ON CONFLICT (conflict) DO UPDATE SET col =
EXCLUDED.col, ...` for every payload column outside the conflict set. When
every payload column is a conflict column the update set would be empty,
which is not valid SQL; that edge compiles to `DO NOTHING` instead. The
conflict set must be non-empty.
*/
func (self *Builder) CompileUpsert(conflict []string, rows ...Row) (_ Stmt, err error) {
	defer rec(&err)

	cols := insertCols(rows, `compiling upsert`)
	if len(conflict) == 0 {
		panic(ErrInvalidInput.while(`compiling upsert`).because(
			errf(`conflict column set must be non-empty`),
		))
	}

	bui := MakeBui(256, len(rows)*len(cols))
	self.appendInsert(&bui, cols, rows)

	bui.Str(`ON CONFLICT`)
	bui.Str(`(`)
	bui.Expr(Cols(conflict))
	bui.Str(`)`)

	update := colsExcept(cols, conflict)
	if len(update) == 0 {
		bui.Str(`DO NOTHING`)
	} else {
		bui.Str(`DO UPDATE SET`)
		for ind, col := range update {
			if ind > 0 {
				bui.Str(`,`)
			}
			bui.Expr(Ident(col))
			bui.Str(`=`)
			bui.Str(`EXCLUDED.`)
			bui.Expr(Ident(col))
		}
	}

	bui.Expr(ReturningStar{})
	return Stmt{bui.String(), bui.Args}, nil
}

/*
Compiles `UPDATE relation SET col = $N, ... [WHERE ...] RETURNING *`. SET
args come first, then WHERE args. An empty data mapping fails with
`ErrEmptyPayload`.
*/
func (self *Builder) CompileUpdate(data Row) (_ Stmt, err error) {
	defer rec(&err)

	if len(data) == 0 {
		panic(ErrEmptyPayload.while(`compiling update`).because(
			errf(`update requires a non-empty data mapping`),
		))
	}

	bui := MakeBui(128, len(data)+len(self.filters))
	bui.Str(`UPDATE`)
	bui.Expr(self.relation())
	bui.Str(`SET`)

	for ind, col := range data.Cols() {
		if ind > 0 {
			bui.Str(`,`)
		}
		bui.Expr(Ident(col))
		bui.Str(`=`)
		bui.Arg(data[col])
	}

	self.appendWhere(&bui)
	bui.Expr(ReturningStar{})
	return Stmt{bui.String(), bui.Args}, nil
}

/*
Compiles `DELETE FROM relation [WHERE ...] RETURNING *`. A delete with no
filters is valid and deletes every row; no implicit guard is injected, the
explicit filters are the caller's responsibility.
*/
func (self *Builder) CompileDelete() (_ Stmt, err error) {
	defer rec(&err)

	bui := MakeBui(64, len(self.filters))
	bui.Str(`DELETE FROM`)
	bui.Expr(self.relation())
	self.appendWhere(&bui)
	bui.Expr(ReturningStar{})

	return Stmt{bui.String(), bui.Args}, nil
}

// Compiles the select and executes it, returning the resulting rows.
func (self *Builder) Fetch(ctx context.Context) ([]Row, error) {
	stmt, err := self.CompileSelect()
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

// Compiles an insert of the given rows and executes it, returning the
// inserted rows.
func (self *Builder) Insert(ctx context.Context, rows ...Row) ([]Row, error) {
	stmt, err := self.CompileInsert(rows...)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

// Compiles an upsert of the given rows and executes it, returning the
// affected rows. See `Builder.CompileUpsert`.
func (self *Builder) Upsert(ctx context.Context, conflict []string, rows ...Row) ([]Row, error) {
	stmt, err := self.CompileUpsert(conflict, rows...)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

// Compiles an update with the given data mapping and executes it, returning
// the updated rows.
func (self *Builder) Update(ctx context.Context, data Row) ([]Row, error) {
	stmt, err := self.CompileUpdate(data)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

// Compiles a delete and executes it, returning the deleted rows.
func (self *Builder) Delete(ctx context.Context) ([]Row, error) {
	stmt, err := self.CompileDelete()
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, self.db, stmt)
}

func (self *Builder) relation() Identifier {
	if self.schema != `` {
		return Identifier{self.schema, self.table}
	}
	return Identifier{self.table}
}

func (self *Builder) appendWhere(bui *Bui) {
	if !self.filters.IsEmpty() {
		bui.Str(`WHERE`)
		bui.Expr(self.filters)
	}
}

func (self *Builder) appendInsert(bui *Bui, cols []string, rows []Row) {
	bui.Str(`INSERT INTO`)
	bui.Expr(self.relation())
	bui.Str(`(`)
	bui.Expr(Cols(cols))
	bui.Str(`)`)
	bui.Str(`VALUES`)

	for rowInd, row := range rows {
		if rowInd > 0 {
			bui.Str(`,`)
		}
		bui.Str(`(`)
		for colInd, col := range cols {
			if colInd > 0 {
				bui.Str(`,`)
			}
			bui.Arg(row[col])
		}
		bui.Str(`)`)
	}
}

/*
Derives the shared column list from the first row and verifies every other
row has the identical key set. The shared order determines both the compiled
column list and every row's placeholder group.
*/
func insertCols(rows []Row, while string) []string {
	if len(rows) == 0 {
		panic(ErrEmptyPayload.while(while).because(errf(`expected at least one row`)))
	}

	cols := rows[0].Cols()
	if len(cols) == 0 {
		panic(ErrEmptyPayload.while(while).because(errf(`rows have no columns`)))
	}

	for ind, row := range rows[1:] {
		if len(row) != len(cols) {
			panic(errRowMismatch(while, ind+1, cols))
		}
		for _, col := range cols {
			if _, ok := row[col]; !ok {
				panic(errRowMismatch(while, ind+1, cols))
			}
		}
	}
	return cols
}

func errRowMismatch(while string, ind int, cols []string) Err {
	return ErrSchemaMismatch.while(while).because(
		errf(`row %v doesn't match the column set %q of row 0`, ind, cols),
	)
}

func colsExcept(cols []string, except []string) []string {
	out := make([]string, 0, len(cols))
outer:
	for _, col := range cols {
		for _, exc := range except {
			if col == exc {
				continue outer
			}
		}
		out = append(out, col)
	}
	return out
}
