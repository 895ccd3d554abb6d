package supagres

import (
	r "reflect"

	"github.com/mitranim/refut"
)

/*
One row of data, keyed by column name. Used both as input for
INSERT/UPSERT/UPDATE payloads and as output for rows materialized from
`RETURNING *` / SELECT results.
*/
type Row map[string]any

// Columns of the row, in the deterministic (sorted) order used by the
// statement compiler.
func (self Row) Cols() []string { return sortedKeys(self) }

/*
Short for "dictionary". Named arguments, used for stored-procedure calls and
for `Raw.AppendNamed`.
*/
type Dict map[string]any

/*
Converts a struct into a `Row`, using the `db` tag of each field as the
column name. Fields with no `db` tag, or with the tag "-", are skipped.
Embedded structs are traversed. Panics with `ErrInvalidInput` if the input
is not a struct.

Allows INSERT/UPSERT/UPDATE payloads to come from typed records:

	_, err := client.Table(`users`).Insert(ctx, supagres.StructRow(user))
*/
func StructRow(src any) Row {
	out := Row{}
	traverseStructDbFields(src, func(col string, val any) {
		out[col] = val
	})
	return out
}

func structFieldDbName(sfield r.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}

func traverseStructDbFields(input any, fun func(string, any)) {
	rval := r.ValueOf(input)
	rtype := refut.RtypeDeref(rval.Type())

	if rtype.Kind() != r.Struct {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).because(
			errf(`expected struct, got %q`, rtype),
		))
	}

	if refut.IsRvalNil(rval) {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval r.Value, sfield r.StructField, _ []int) error {
		col := structFieldDbName(sfield)
		if col == "" {
			return nil
		}
		fun(col, rval.Interface())
		return nil
	})
	if err != nil {
		panic(err)
	}
}
