package supagres

import (
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type list = []any

type Person struct {
	Id    int64  `json:"id"    db:"id"`
	Name  string `json:"name"  db:"name"`
	Email string `json:"email" db:"-"`
	Notes string `json:"notes"`
}

type Embed struct {
	EmbedId   int64  `db:"embed_id"`
	EmbedName string `db:"embed_name"`
}

type Outer struct {
	Embed
	OuterId   int64  `db:"outer_id"`
	OuterName string `db:"outer_name"`
}

type Encoder interface {
	fmt.Stringer
	Appender
	Expr
}

func testEncoder(t testing.TB, exp string, val Encoder) {
	t.Helper()
	eq(t, exp, val.String())
	eq(t, exp, string(val.Append(nil)))

	text, args := val.AppendExpr(nil, nil)
	eq(t, exp, string(text))
	eq(t, 0, len(args))
}

func testCompiled(t testing.TB, expText string, expArgs list, stmt Stmt, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf(`unexpected compile error: %+v`, err)
	}
	eq(t, expText, stmt.Text)
	eq(t, expArgs, normArgs(stmt.Args))
}

// We don't care about the difference between nil and zero-length arg lists.
func normArgs(args list) list {
	if len(args) == 0 {
		return list{}
	}
	return args
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }
