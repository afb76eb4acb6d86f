package invocation

// PairState is the intermediate state of a Pair: both elements' states.
type PairState[S1, S2 any] struct {
	First  S1
	Second S2
}

// PairOutput is the output of a Pair: both elements' outputs.
type PairOutput[O1, O2 any] struct {
	First  O1
	Second O2
}

// Pair lifts two invocations into one: "do both, succeed only if both would
// succeed". Pair itself satisfies the Invocation contract, so pairs nest to
// chain arbitrarily many invocations, e.g. NewPair(a, NewPair(b, c)). Each
// nesting preserves the atomicity guarantee: the chain commits all or
// nothing, provided each leaf keeps its Commit infallible.
type Pair[S1, O1, S2, O2 any] struct {
	First  Invocation[S1, O1]
	Second Invocation[S2, O2]
}

// NewPair combines two invocations into one atomic composite.
func NewPair[S1, O1, S2, O2 any](first Invocation[S1, O1], second Invocation[S2, O2]) Pair[S1, O1, S2, O2] {
	return Pair[S1, O1, S2, O2]{First: first, Second: second}
}

// MayFail runs both elements' fallible phases left to right, short-circuiting
// on the first error. If the first element fails, the second is never
// attempted. If the second fails, the first element's already-computed
// intermediate state is discarded; no commit occurs for either side, so
// neither side's mutation happens.
func (p Pair[S1, O1, S2, O2]) MayFail() (PairState[S1, S2], error) {
	var zero PairState[S1, S2]

	s1, err := p.First.MayFail()
	if err != nil {
		return zero, err
	}
	s2, err := p.Second.MayFail()
	if err != nil {
		return zero, err
	}
	return PairState[S1, S2]{First: s1, Second: s2}, nil
}

// Commit unconditionally commits both elements in order, first then second,
// and returns both outputs. Both intermediate states were validated
// successful before Commit is reachable, so neither commit can fail.
func (p Pair[S1, O1, S2, O2]) Commit(tmp PairState[S1, S2]) PairOutput[O1, O2] {
	return PairOutput[O1, O2]{
		First:  p.First.Commit(tmp.First),
		Second: p.Second.Commit(tmp.Second),
	}
}
