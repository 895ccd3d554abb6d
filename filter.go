package supagres

const (
	OpEq    Op = `=`
	OpNeq   Op = `!=`
	OpGt    Op = `>`
	OpGte   Op = `>=`
	OpLt    Op = `<`
	OpLte   Op = `<=`
	OpLike  Op = `LIKE`
	OpIlike Op = `ILIKE`
	OpIn    Op = `IN`
	OpNotIn Op = `NOT IN`
	OpIs    Op = `IS`
	OpIsNot Op = `IS NOT`
)

// Short for "operator". Closed enum of filter operators. The SQL spelling is
// the enum's value.
type Op string

// True for the list operators `IN` / `NOT IN`, whose operand must be a
// non-empty sequence of values.
func (self Op) IsList() bool { return self == OpIn || self == OpNotIn }

// True for the null operators `IS` / `IS NOT`, whose operand must be nil.
func (self Op) IsNull() bool { return self == OpIs || self == OpIsNot }

// True if the operator is part of the closed enum.
func (self Op) IsValid() bool {
	switch self {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpLike, OpIlike,
		OpIn, OpNotIn, OpIs, OpIsNot:
		return true
	default:
		return false
	}
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Op) String() string { return string(self) }

/*
One WHERE-clause predicate: `(column, operator, operand)`. The operand shape
must match the operator; see `Filter.validate`.
*/
type Filter struct {
	Col string
	Op  Op
	Val any
}

/*
Panics with `ErrInvalidFilter` when the operand shape doesn't match the
operator. Called when a filter is appended, not when it's compiled, so
mistakes surface immediately at the call site.
*/
func (self Filter) validate() {
	if !self.Op.IsValid() {
		panic(ErrInvalidFilter.while(`appending filter`).because(
			errf(`unrecognized operator %q`, string(self.Op)),
		))
	}

	if self.Op.IsList() {
		if !isListValue(self.Val) {
			panic(ErrInvalidFilter.while(`appending filter`).because(
				errf(`operator %q requires a sequence operand, got %T`, string(self.Op), self.Val),
			))
		}
		if listLen(self.Val) == 0 {
			panic(ErrInvalidFilter.while(`appending filter`).because(
				errf(`operator %q requires a non-empty sequence operand`, string(self.Op)),
			))
		}
		return
	}

	if self.Op.IsNull() {
		if !isNil(self.Val) {
			panic(ErrInvalidFilter.while(`appending filter`).because(
				errf(`operator %q requires a nil operand, got %T`, string(self.Op), self.Val),
			))
		}
		return
	}

	if isListValue(self.Val) {
		panic(ErrInvalidFilter.while(`appending filter`).because(
			errf(`operator %q requires a scalar operand, got %T`, string(self.Op), self.Val),
		))
	}
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Filter) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Set(Ident(self.Col).AppendExpr(bui.Get()))
	bui.Str(string(self.Op))

	switch {
	case self.Op.IsList():
		bui.Str(`(`)
		for ind := 0; ind < listLen(self.Val); ind++ {
			if ind > 0 {
				bui.Str(`,`)
			}
			bui.Arg(listIndex(self.Val, ind))
		}
		bui.Str(`)`)

	case self.Op.IsNull():
		// Encoded as a keyword rather than a bound null. Some drivers compare
		// bound nulls non-intuitively.
		bui.Str(`NULL`)

	default:
		bui.Arg(self.Val)
	}

	return bui.Get()
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Filter) String() string { return exprString(&self) }

/*
The filter ledger: predicates in append order. Order is significant: it
determines both the left-to-right AND-conjunction of the WHERE clause and
the resulting placeholder order.
*/
type Filters []Filter

/*
Validates the filter's operand shape and appends it. Panics with
`ErrInvalidFilter` on a shape mismatch.
*/
func (self *Filters) Add(val Filter) {
	val.validate()
	*self = append(*self, val)
}

// True if there are no predicates.
func (self Filters) IsEmpty() bool { return len(self) == 0 }

// Implement the `Expr` interface. Renders the predicates joined by `AND`,
// without the `WHERE` keyword.
func (self Filters) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	for ind, val := range self {
		if ind > 0 {
			bui.Str(`AND`)
		}
		bui.Set(val.AppendExpr(bui.Get()))
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Filters) Append(text []byte) []byte { return exprAppend(&self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Filters) String() string { return exprString(&self) }

/*
Compiles the full WHERE fragment (leading-space-prefixed, as it appears in a
statement) and the flattened argument values in placeholder order. An empty
ledger yields an empty fragment and no args.
*/
func (self Filters) CompileWhere() (string, []any) {
	if self.IsEmpty() {
		return ``, nil
	}

	var bui Bui
	bui.Raw(` WHERE `)
	bui.Set(self.AppendExpr(bui.Get()))
	return bui.Reify()
}
