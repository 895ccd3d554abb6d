package supagres

import (
	"strconv"
	"strings"
)

// Represents an ordinal parameter such as "$1". Mostly for internal use.
type OrdinalParam int

// Implement the `Expr` interface, making this a sub-expression.
func (self OrdinalParam) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self OrdinalParam) Append(text []byte) []byte {
	text = append(text, ordinalParamPrefix)
	text = strconv.AppendInt(text, int64(self), 10)
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self OrdinalParam) String() string { return appenderToStr(&self) }

// Returns the corresponding Go index (starts at zero).
func (self OrdinalParam) Index() int { return int(self) - 1 }

/*
Represents an SQL identifier, always quoted. Embedded double quotes are
escaped by doubling, per the Postgres identifier-quoting rule. Identifiers
can't be bound as placeholders, which is why they're encoded into the text
rather than added to the args.
*/
type Ident string

// Implement the `Expr` interface, making this a sub-expression.
func (self Ident) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ident) Append(text []byte) []byte {
	text = maybeAppendSpace(text)
	text = append(text, quoteDouble)
	text = append(text, strings.ReplaceAll(string(self), `"`, `""`)...)
	text = append(text, quoteDouble)
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ident) String() string { return appenderToStr(&self) }

/*
Represents a nested SQL identifier where all elements are quoted and
dot-separated. Used for schema-qualified relation references such as
`"public"."users"`.
*/
type Identifier []string

// Implement the `Expr` interface, making this a sub-expression.
func (self Identifier) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Identifier) Append(text []byte) []byte {
	if len(self) == 0 {
		return text
	}
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `.`...)
		}
		text = Ident(val).Append(text)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Identifier) String() string { return appenderToStr(&self) }

/*
Represents a projection: an ordered list of column names, each quoted. Empty
means "all columns" and encodes as a literal unquoted `*`, since the
wildcard is not a name. This is the single narrow exception to identifier
quoting.
*/
type Cols []string

// Implement the `Expr` interface, making this a sub-expression.
func (self Cols) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Cols) Append(text []byte) []byte {
	if len(self) == 0 {
		return appendMaybeSpaced(text, `*`)
	}
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = Ident(val).Append(text)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Cols) String() string { return appenderToStr(&self) }

const (
	DirAsc  Dir = 1
	DirDesc Dir = 2
)

// Short for "direction". Enum for ordering direction: "ASC" or "DESC".
type Dir byte

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Dir) Append(text []byte) []byte {
	return appendMaybeSpaced(text, self.String())
}

// Implement `fmt.Stringer` for debug purposes.
func (self Dir) String() string {
	switch self {
	default:
		return ``
	case DirAsc:
		return `ASC`
	case DirDesc:
		return `DESC`
	}
}

// Parses from a string, which must be either "asc" or "desc", ignoring case.
func (self *Dir) Parse(src string) error {
	switch strings.ToLower(src) {
	case `asc`:
		*self = DirAsc
		return nil
	case `desc`:
		*self = DirDesc
		return nil
	default:
		return Err{
			Code:  ErrCodeInvalidInput,
			While: `parsing order direction`,
			Cause: errf(`unrecognized direction %q`, src),
		}
	}
}

/*
One element of an "ORDER BY" clause: a column name with a direction. See
`Ords` for the full clause.
*/
type Ord struct {
	Col string
	Dir Dir
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Ord) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ord) Append(text []byte) []byte {
	text = Ident(self.Col).Append(text)
	text = self.Dir.Append(text)
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ord) String() string { return appenderToStr(&self) }

/*
Short for "orderings". Sequence of `(column, direction)` pairs for an SQL
"ORDER BY" clause, in declaration order. Empty means no clause. The order is
stable: elements are never re-sorted.
*/
type Ords []Ord

// Implement the `Expr` interface, making this a sub-expression.
func (self Ords) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ords) Append(text []byte) []byte {
	for ind, val := range self {
		if ind == 0 {
			text = appendMaybeSpaced(text, `ORDER BY`)
		} else {
			text = append(text, `,`...)
		}
		text = val.Append(text)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ords) String() string { return appenderToStr(&self) }

// True if there are no elements.
func (self Ords) IsEmpty() bool { return len(self) == 0 }

/*
Appends `RETURNING *`. Every mutation statement compiled by this package
returns the affected rows, like the Supabase API it mirrors.
*/
type ReturningStar struct{}

// Implement the `Expr` interface, making this a sub-expression.
func (self ReturningStar) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self ReturningStar) Append(text []byte) []byte {
	return appendMaybeSpaced(text, `RETURNING *`)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self ReturningStar) String() string { return `RETURNING *` }
