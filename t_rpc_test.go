package supagres

import "testing"

func Test_CompileCall(t *testing.T) {
	t.Run(`no_params`, func(t *testing.T) {
		stmt, err := CompileCall(`refresh_views`, nil)
		testCompiled(t, `SELECT "refresh_views"()`, list{}, stmt, err)

		stmt, err = CompileCall(`refresh_views`, Dict{})
		testCompiled(t, `SELECT "refresh_views"()`, list{}, stmt, err)
	})

	t.Run(`single_param`, func(t *testing.T) {
		stmt, err := CompileCall(`add_one`, Dict{`val`: 10})
		testCompiled(t, `SELECT "add_one"("val" := $1)`, list{10}, stmt, err)
	})

	// Parameter order is the sorted name order, for deterministic output.
	t.Run(`multi_param`, func(t *testing.T) {
		stmt, err := CompileCall(`search`, Dict{`term`: `mira`, `max`: 10, `offset`: 0})
		testCompiled(
			t,
			`SELECT "search"("max" := $1, "offset" := $2, "term" := $3)`,
			list{10, 0, `mira`},
			stmt, err,
		)
	})

	t.Run(`quoting`, func(t *testing.T) {
		stmt, err := CompileCall(`weird"proc`, Dict{`par"am`: 10})
		testCompiled(t, `SELECT "weird""proc"("par""am" := $1)`, list{10}, stmt, err)
	})
}
