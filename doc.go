/*
Supagres: fluent, injection-safe query construction for Postgres. Callers
chain builder methods instead of writing SQL strings; terminal calls compile
the accumulated state into parameterized statement text plus a positionally
ordered argument list, ready for a driver-level execute.

Key Features

• Identifiers are always quoted, never parameterized. Values are always
parameterized as Postgres-style ordinals such as $1, never interpolated.

• Clause-specific parameter handling: `in` lists expand to one placeholder
per element, `is [not] null` binds nothing, multi-row inserts repeat one
placeholder group per row.

• Compilation is pure and deterministic; execution against the database is
a separate, context-aware step. Compile errors surface before any network
round-trip.

• A `Raw` escape hatch for plain SQL with automatic ordinal renumeration
and query composition, for everything the fluent surface deliberately
excludes.

A `Builder` is a short-lived, single-owner accumulator for one logical
statement, analogous to a string builder. Concurrent mutation from multiple
goroutines is undefined; use external synchronization or a fresh builder
per statement.

Examples

See `Client.Table`, `Builder.CompileSelect`, `Raw.Append`.
*/
package supagres
