package invocation

// Invocation is one attempted, atomic operation, holding its full input.
//
// The type parameters are the operation's associated types:
//   - S is the intermediate state bridging the two phases. It must contain
//     everything Commit needs, so that Commit cannot fail.
//   - O is the output produced by successful completion.
//
// The error type is deliberately Go's error interface: composing two
// invocations requires a shared failure representation, and error is the
// common one. Implementers that need a richer taxonomy return their own
// error values and callers recover them with errors.As.
type Invocation[S, O any] interface {
	// MayFail performs all validation and any fallible work, using only
	// read access to the invocation's held input. On success it returns an
	// intermediate state that fully determines the eventual output; no
	// further failure is possible downstream. On failure the input is left
	// unmodified and no observable state change has occurred.
	MayFail() (S, error)

	// Commit applies the state change and produces the output. It is
	// infallible by contract: all fallible work was required to happen in
	// MayFail. Commit is the only phase permitted to consume the input
	// irreversibly or apply externally visible state changes. The
	// invocation is logically consumed by the call.
	Commit(tmp S) O
}

// Execute drives an invocation to completion.
//
// MayFail runs first. If it fails, the error is returned unchanged and
// Commit is never called: the invocation is simply discarded with no side
// effects. If it succeeds, Commit runs exactly once with the produced
// intermediate state and the output is returned.
//
// This ordering is the entire exception-safety guarantee: no state mutation
// can occur unless success of the fallible phase is already certain, and
// once the mutating phase begins it cannot itself fail. The result is
// always "fully applied" or "not applied at all", never partial.
func Execute[S, O any](inv Invocation[S, O]) (O, error) {
	tmp, err := inv.MayFail()
	if err != nil {
		var zero O
		return zero, err
	}
	return inv.Commit(tmp), nil
}
