package supagres

/*
Compiles a stored-procedure invocation: `SELECT "proc"(name := $1, ...)`.
Parameter names are quoted identifiers; values become ordinal placeholders
in the deterministic (sorted) name order. A nil or empty params map compiles
to a zero-argument call.

Result extraction is the caller's concern; see `Client.Call`, which unwraps
the single column keyed by the procedure name.
*/
func CompileCall(proc string, params Dict) (_ Stmt, err error) {
	defer rec(&err)

	bui := MakeBui(64, len(params))
	bui.Str(`SELECT`)
	bui.Expr(Ident(proc))
	bui.Raw(`(`)

	for ind, key := range sortedKeys(params) {
		if ind > 0 {
			bui.Str(`,`)
		}
		bui.Expr(Ident(key))
		bui.Str(`:=`)
		bui.Arg(params[key])
	}

	bui.Raw(`)`)
	return Stmt{bui.String(), bui.Args}, nil
}
