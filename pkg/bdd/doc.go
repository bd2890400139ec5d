// Package bdd registers describe/it/before style test cases and runs them.
//
// A run starts with [Describe], which builds a single [Context] and hands it
// to the builder callback. Inside the callback, [Context.Group] labels a block
// of registrations, [Context.Test] registers a case and [Context.Before]
// registers a hook. Groups do not open a new scope: every case and every hook
// lands in the one flat sequence owned by the root Context, so a hook declared
// inside any group runs before every case of the run.
//
// [Runner.Run] executes each case once in registration order, running all
// hooks before it. A panic in a hook or case is recovered at the case boundary
// and counted as a failure; the run continues with the next case.
// [Runner.Result] returns the aggregate [domain.Report].
package bdd
