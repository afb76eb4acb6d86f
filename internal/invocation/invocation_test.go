package invocation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe is a configurable invocation that records how it was driven.
// It fails in MayFail when failWith is set, and counts phase calls so tests
// can assert Commit is never reached after a failure.
type probe struct {
	failWith error  // error returned from MayFail, nil to succeed
	state    string // intermediate state produced on success
	output   string // output returned from Commit

	mayFailCalls  int
	commitCalls   int
	committedWith string
}

func (p *probe) MayFail() (string, error) {
	p.mayFailCalls++
	if p.failWith != nil {
		return "", p.failWith
	}
	return p.state, nil
}

func (p *probe) Commit(tmp string) string {
	p.commitCalls++
	p.committedWith = tmp
	return p.output
}

// constant always succeeds with 42. Not a realistic use case, but a good
// measure of how much bulk the simplest possible implementer takes.
type constant struct{}

type dummyState struct{}

func (constant) MayFail() (dummyState, error) { return dummyState{}, nil }

func (constant) Commit(dummyState) int { return 42 }

// identity passes its held argument through unchanged. The argument is
// surrendered to the invocation at construction and handed back by Commit,
// exercising ownership transfer through the protocol.
type identity[A any] struct {
	arg A
}

func (i identity[A]) MayFail() (struct{}, error) { return struct{}{}, nil }

func (i identity[A]) Commit(struct{}) A { return i.arg }

func TestExecute_FailureNeverCommits(t *testing.T) {
	boom := errors.New("validation failed")
	p := &probe{failWith: boom}

	out, err := Execute[string, string](p)

	assert.Equal(t, boom, err, "MayFail's error must be returned unchanged")
	assert.Empty(t, out)
	assert.Equal(t, 1, p.mayFailCalls)
	assert.Zero(t, p.commitCalls, "Commit must never run after a failing MayFail")
}

func TestExecute_SuccessCommitsExactlyOnce(t *testing.T) {
	p := &probe{state: "prepared", output: "done"}

	out, err := Execute[string, string](p)

	require.NoError(t, err)
	assert.Equal(t, "done", out, "Execute must return Commit's value")
	assert.Equal(t, 1, p.mayFailCalls)
	assert.Equal(t, 1, p.commitCalls, "Commit must run exactly once")
	assert.Equal(t, "prepared", p.committedWith, "Commit must receive MayFail's state")
}

func TestExecute_Constant(t *testing.T) {
	answer, err := Execute[dummyState, int](constant{})

	require.NoError(t, err)
	assert.Equal(t, 42, answer)
}

func TestExecute_IdentityReturnsHeldArgument(t *testing.T) {
	// Argument with a non-static lifetime, owned by the invocation.
	local := "Hello, World!"

	result, err := Execute[struct{}, string](identity[string]{arg: local})

	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", result)
}

func TestExecute_IdentitySlice(t *testing.T) {
	buf := []byte("owned buffer")

	result, err := Execute[struct{}, []byte](identity[[]byte]{arg: buf})

	require.NoError(t, err)
	assert.Equal(t, []byte("owned buffer"), result)
}
