package supagres

import (
	"fmt"
	r "reflect"
	"sort"
	"unsafe"
)

const (
	ordinalParamPrefix = '$'
	quoteDouble        = '"'
)

var (
	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetDelimStart = new(charset).addSet(charsetWhitespace).addStr(`([{.`)
	charsetDelimEnd   = new(charset).addSet(charsetWhitespace).addStr(`,}])`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

func maybeAppendSpace(val []byte) []byte {
	if hasDelimSuffix(bytesToMutableString(val)) {
		return val
	}
	return append(val, ` `...)
}

func appendMaybeSpaced(text []byte, suffix string) []byte {
	if !hasDelimSuffix(bytesToMutableString(text)) && !hasDelimPrefix(suffix) {
		text = append(text, ` `...)
	}
	text = append(text, suffix...)
	return text
}

func hasDelimPrefix(text string) bool {
	return len(text) == 0 || charsetDelimEnd.has(text[0])
}

func hasDelimSuffix(text string) bool {
	return len(text) == 0 || charsetDelimStart.has(text[len(text)-1])
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed
from the standard library. Should not be used when the underlying byte array
is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func errf(pat string, vals ...any) error { return fmt.Errorf(pat, vals...) }

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}

func growBytes(prev []byte, size int) []byte {
	len, cap := len(prev), cap(prev)
	if cap-len >= size {
		return prev
	}

	next := make([]byte, len, 2*cap+size)
	copy(next, prev)
	return next
}

// Same as `growBytes`. WTB generics.
func growInterfaces(prev []any, size int) []any {
	len, cap := len(prev), cap(prev)
	if cap-len >= size {
		return prev
	}

	next := make([]any, len, 2*cap+size)
	copy(next, prev)
	return next
}

func exprAppend[A Expr](expr A, text []byte) []byte {
	text, _ = expr.AppendExpr(text, nil)
	return text
}

func exprString[A Expr](expr A) string {
	return bytesToMutableString(exprAppend(expr, nil))
}

func appenderToStr(val Appender) string {
	return bytesToMutableString(val.Append(nil))
}

/*
Go map iteration is randomized. Compilation must be deterministic for any
given builder state, so every place that derives column or argument order
from a map uses the sorted key order instead.
*/
func sortedKeys[Map ~map[string]any](src Map) []string {
	out := make([]string, 0, len(src))
	for key := range src {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func isNil(val any) bool {
	rval := r.ValueOf(val)
	if !rval.IsValid() {
		return true
	}
	switch rval.Kind() {
	case r.Chan, r.Func, r.Interface, r.Map, r.Ptr, r.Slice:
		return rval.IsNil()
	default:
		return false
	}
}

/*
True if the value is a slice or array of SQL values, as opposed to a single
SQL value. `[]byte` is how drivers represent blobs and is considered scalar.
*/
func isListValue(val any) bool {
	if val == nil {
		return false
	}
	if _, ok := val.([]byte); ok {
		return false
	}
	kind := r.ValueOf(val).Kind()
	return kind == r.Slice || kind == r.Array
}

func listLen(val any) int { return r.ValueOf(val).Len() }

func listIndex(val any, ind int) any {
	return r.ValueOf(val).Index(ind).Interface()
}
