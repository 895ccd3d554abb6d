package supagres

import (
	"github.com/mitranim/sqlp"
)

/*
If true (default), unused arguments cause panics in functions like
`Raw.Append`. If false, unused arguments are ok. Turning this off can be
convenient in development, when changing queries rapidly.
*/
var CheckUnused = true

/*
Interface that allows compatibility between different raw-query variants.
Sub-query interpolation, supported by `Raw.Append` and `Raw.AppendNamed`,
detects instances of this interface rather than the concrete type `Raw`,
allowing external code to implement its own variants, wrap `Raw`, etc.
*/
type Rawer interface{ AppendRaw(*Raw) }

/*
Escape hatch for writing plain SQL: everything the fluent `Builder`
deliberately excludes, such as joins, grouping and subqueries. Contains both
statement text and arguments, and automatically renumerates ordinal
placeholders when appending code, making it easy to avoid mis-numbering. See
`Raw.Append`.

Composable: both `Raw.Append` and `Raw.AppendNamed` automatically
interpolate sub-queries found in the arguments, combining the arguments and
renumerating the parameters as appropriate.

Always uses Postgres-style ordinal parameters of the form `$N`; named
parameters are converted to this canonical form.
*/
type Raw struct {
	Text []byte
	Args []any
}

// Shortcut for making a `Raw` with a single `Raw.Append` call.
func RawFrom(src string, args ...any) Raw {
	var out Raw
	out.Append(src, args...)
	return out
}

/*
Compiles plain SQL into a `Stmt` via `Raw`, converting construction panics
such as `ErrUnusedArgument` into returned errors.
*/
func CompileRaw(src string, args ...any) (_ Stmt, err error) {
	defer rec(&err)
	return RawFrom(src, args...).Stmt(), nil
}

// Implement `fmt.Stringer`.
func (self Raw) String() string {
	return bytesToMutableString(self.Text)
}

// Returns the accumulated text and args as a compiled statement, ready for
// execution via `Client.Fetch`.
func (self Raw) Stmt() Stmt {
	return Stmt{bytesToMutableString(self.Text), self.Args}
}

/*
Implement `Rawer`, allowing compatibility between different implementations,
wrappers, etc.
*/
func (self Raw) AppendRaw(out *Raw) {
	out.Append(bytesToMutableString(self.Text), self.Args...)
}

/*
Appends code and arguments. Renumerates ordinal parameters, offsetting them
by the previous argument count. The count in the code always starts from
`$1`.

Composable: automatically interpolates any instances of `Rawer` found in the
arguments, combining the arguments and renumerating the parameters as
appropriate.

For example, this:

	var raw Raw
	raw.Append(`where true`)
	raw.Append(`and one = $1`, 10)
	raw.Append(`and two = $1`, 20) // Note the $1.

	stmt := raw.Stmt()

Is equivalent to this:

	stmt := Stmt{`where true and one = $1 and two = $2`, []any{10, 20}}

Panics when: the code is malformed; the code has named parameters; a
parameter doesn't have a corresponding argument; an argument doesn't have a
corresponding parameter.
*/
func (self *Raw) Append(src string, args ...any) {
	tokenizer := sqlp.Tokenizer{Source: src}
	startOffset := len(self.Args)
	appendNonRawArgs(&self.Args, args)

	used := make([]bool, len(args))
	self.Text = maybeAppendSpace(self.Text)

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			index := node.Index()
			if index >= len(args) {
				panic(ErrOrdinalOutOfBounds.while(`appending to raw query`).because(
					errf(`ordinal parameter %v exceeds argument count %v`, node, len(args)),
				))
			}

			used[index] = true
			val, ok := args[index].(Rawer)
			if ok {
				val.AppendRaw(self)
			} else {
				ord := sqlp.NodeOrdinalParam(int(node) + startOffset - rawArgsBefore(args, node.Index()))
				ord.Append(&self.Text)
			}

		case sqlp.NodeNamedParam:
			panic(ErrUnexpectedParameter.while(`appending to raw query`).because(
				errf(`expected only ordinal params, got named param %q`, node),
			))

		default:
			node.Append(&self.Text)
		}
	}

	if CheckUnused {
		for ind, arg := range args {
			if !used[ind] {
				panic(ErrUnusedArgument.while(`appending to raw query`).because(
					errf(`unused argument %#v at index %v`, arg, ind),
				))
			}
		}
	}
}

/*
Appends code and named arguments. The code must have named parameters in the
form ":identifier". The keys in the arguments map must have the form
"identifier", without a leading ":".

Internally, converts named parameters to ordinal parameters of the form
`$N`, such as the ones used by `Raw.Append`.

For example, this:

	var raw Raw
	raw.AppendNamed(`select col where col = :value`, Dict{`value`: 10})

Is equivalent to this:

	raw.Append(`select col where col = $1`, 10)

Panics when: the code is malformed; the code has ordinal parameters; a
parameter doesn't have a corresponding argument; an argument doesn't have a
corresponding parameter.
*/
func (self *Raw) AppendNamed(src string, args Dict) {
	tokenizer := sqlp.Tokenizer{Source: src}
	namedToOrd := make(map[sqlp.NodeNamedParam]sqlp.NodeOrdinalParam, len(args))
	self.Text = maybeAppendSpace(self.Text)

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			panic(ErrUnexpectedParameter.while(`appending to raw query`).because(
				errf(`expected only named params, got ordinal param %q`, node),
			))

		case sqlp.NodeNamedParam:
			arg, found := args[string(node)]
			if !found {
				panic(ErrMissingArgument.while(`appending to raw query`).because(
					errf(`missing named argument %q`, node),
				))
			}

			val, ok := arg.(Rawer)
			if ok {
				// Value doesn't matter. This allows detection of unused arguments.
				namedToOrd[node] = 0
				val.AppendRaw(self)
				continue
			}

			ord, ok := namedToOrd[node]
			if !ok {
				self.Args = append(self.Args, arg)
				ord = sqlp.NodeOrdinalParam(len(self.Args))
				namedToOrd[node] = ord
			}
			ord.Append(&self.Text)

		default:
			node.Append(&self.Text)
		}
	}

	if CheckUnused {
		for key := range args {
			_, ok := namedToOrd[sqlp.NodeNamedParam(key)]
			if !ok {
				panic(ErrUnusedArgument.while(`appending to raw query`).because(
					errf(`unused named argument %q`, key),
				))
			}
		}
	}
}

/*
Convenience method, inverse of `Rawer.AppendRaw`. Appends the other query to
this one, combining the arguments and renumerating the ordinal parameters as
appropriate.
*/
func (self *Raw) AppendQuery(val Rawer) {
	if val != nil {
		val.AppendRaw(self)
	}
}

/*
"Zeroes" the query, keeping any already-allocated capacity. Similar to
`raw = supagres.Raw{}`, but marginally more efficient for subsequent query
building.
*/
func (self *Raw) Clear() {
	self.Text = self.Text[:0]
	self.Args = self.Args[:0]
}

func appendNonRawArgs(out *[]any, args []any) {
	for _, arg := range args {
		if _, ok := arg.(Rawer); !ok {
			*out = append(*out, arg)
		}
	}
}

func rawArgsBefore(args []any, before int) (count int) {
	for _, arg := range args[:before] {
		if _, ok := arg.(Rawer); ok {
			count++
		}
	}
	return
}
