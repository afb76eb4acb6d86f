// Package invocation implements a two-phase protocol for strongly
// exception-safe operations.
//
// An invocation separates the part of an operation that may fail from the
// part that mutates state, so that failure can never leave the system
// partially mutated. Any fallible operation is split into:
//
//  1. MayFail: read-only validation and preparation. May fail. Must not
//     mutate the invocation's held input and must not apply any externally
//     visible state change.
//  2. Commit: the actual state change. Infallible by contract. Receives the
//     intermediate state produced by MayFail, which must carry everything
//     Commit needs so that no recomputation or re-validation can fail.
//
// Execute drives the two phases in order: MayFail first; if it fails, the
// error is returned and Commit is never reached. Because Commit cannot fail,
// the operation is always either fully applied or not applied at all.
//
// Pair lifts two invocations into one while preserving the same guarantee:
// both MayFail phases run (left to right, short-circuiting on the first
// error) before either Commit runs. Pair itself satisfies the invocation
// contract, so pairs nest to build chains of arbitrary length.
//
// CONTRACT:
//
// Implementers hold the entire input of the operation as struct fields at
// construction time; no further external input is accepted. After Execute
// returns, the invocation is logically consumed and must not be driven
// again. Go does not enforce move semantics, so this is a documented
// discipline rather than a compiler-checked guarantee - the same applies to
// Commit's infallibility. Do not add an error return to Commit: a failing
// commit phase is a contract bug, not a handled error case.
package invocation
