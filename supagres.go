package supagres

/*
Short for "expression". Defines an arbitrary SQL fragment. The method appends
arbitrary SQL text. In both the input and output, the arguments must
correspond to the ordinal parameters in the SQL text. This package always
generates Postgres-style ordinal parameters such as "$1".

This method is allowed to panic. Use `(*Bui).CatchExprs` to catch
expression-encoding panics and convert them to errors.

All `Expr` types in this package also implement `Appender` and
`fmt.Stringer`.
*/
type Expr interface {
	AppendExpr([]byte, []any) ([]byte, []any)
}

/*
Appends a text representation. Sometimes allows better efficiency than
`fmt.Stringer`. Implemented by all `Expr` types in this package.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Compiled statement: final text with ordinal placeholders, and the matching
argument list in placeholder order. Created fresh per compile call, handed
to the driver once, then discarded. Never cached or mutated.
*/
type Stmt struct {
	Text string
	Args []any
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Stmt) String() string { return self.Text }

/*
Encodes the provided expressions and returns the resulting text and args.
Shortcut for using `(*Bui).Exprs` and `Bui.Reify`. Provided mostly for
examples. Actual code may want to use `Bui`:

	bui := MakeBui(4096, 64)
	panic(bui.CatchExprs(someExprs...))
	text, args := bui.Reify()
*/
func Reify(vals ...Expr) (string, []any) {
	var bui Bui
	bui.Exprs(vals...)
	return bui.Reify()
}
