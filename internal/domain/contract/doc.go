// Package contract implements the domain layer for staged contract metadata construction.
//
// Like the other domain packages it contains only standard library code and has no
// knowledge of logging, tracing, or output formatting. Those concerns plug in through
// the Observer interface.
//
// # Stages
//
// A contract is built through three stages, each with its own Go type:
//
//	New(name) -> *Init --Validate()--> *Validated --OnDeploy(hook)--> *Deployed
//
// *Init exposes WithAuthor and Validate, *Validated exposes OnDeploy, and *Deployed
// exposes Name, Registry, IntoInner and the scoped accessors. Calling an operation
// that belongs to another stage does not compile. All three types implement the
// sealed Builder interface.
//
// Transitions consume their receiver. The old handle is marked consumed and any
// later call on it panics with ErrConsumed.
//
// # Metadata
//
// The metadata mapping lives in a reference-counted cell shared by every handle.
// Writes go through Update, reads through View; both are scoped. Overlapping
// access (an Update while anything else holds the cell, or a View while an Update
// is running) panics with a *BorrowError before touching the mapping. Update runs
// against a copy that is committed only when the callback returns, so an aborted
// update never leaves a partially written record behind.
//
// Deployed.IntoInner takes the mapping by value when the builder holds the last
// reference. When registry handles are still outstanding it returns an empty
// mapping together with ErrStillShared.
package contract
