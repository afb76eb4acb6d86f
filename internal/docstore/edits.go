package docstore

import (
	"fmt"

	"github.com/roach88/twophase/internal/invocation"
)

// Edit operation names, recorded in Change and in the journal.
const (
	OpSet    = "set"
	OpDelete = "delete"
	OpRename = "rename"
)

// Change records one applied edit: what happened and what was there before.
type Change struct {
	Op       string `json:"op"`
	Path     string `json:"path"`
	Previous any    `json:"previous,omitempty"`
	Replaced bool   `json:"replaced"`
}

// Staged is the intermediate state of a single edit: the exact mutation to
// perform, fully resolved and validated, plus the change record it will
// produce. Holding the resolved parent mapping inside the closure is what
// makes the commit phase infallible - no path is walked twice.
type Staged struct {
	apply  func()
	change Change
}

// Edit is any single document edit. All edits share the Staged/Change
// associated types so a heterogeneous list of them can form a Batch.
type Edit = invocation.Invocation[Staged, Change]

// SetField sets the value at a dotted path. Every intermediate segment must
// already exist and be a mapping; the final key may be new or existing.
type SetField struct {
	Doc   *Document
	Path  string
	Value any
}

// MayFail validates the path against the unmodified document and resolves
// the parent mapping the assignment will land in.
func (e SetField) MayFail() (Staged, error) {
	parent, key, err := e.Doc.resolveParent(e.Path)
	if err != nil {
		return Staged{}, err
	}
	prev, existed := parent[key]
	return Staged{
		apply:  func() { parent[key] = e.Value },
		change: Change{Op: OpSet, Path: e.Path, Previous: prev, Replaced: existed},
	}, nil
}

// Commit performs the resolved assignment.
func (e SetField) Commit(tmp Staged) Change {
	tmp.apply()
	return tmp.change
}

// DeleteField removes the value at a dotted path. The key must exist.
type DeleteField struct {
	Doc  *Document
	Path string
}

// MayFail validates that the path resolves to an existing key.
func (e DeleteField) MayFail() (Staged, error) {
	parent, key, err := e.Doc.resolveParent(e.Path)
	if err != nil {
		return Staged{}, err
	}
	prev, existed := parent[key]
	if !existed {
		return Staged{}, &EditError{Code: ErrCodeMissingKey, Path: e.Path, Message: "key does not exist"}
	}
	return Staged{
		apply:  func() { delete(parent, key) },
		change: Change{Op: OpDelete, Path: e.Path, Previous: prev, Replaced: true},
	}, nil
}

// Commit performs the resolved deletion.
func (e DeleteField) Commit(tmp Staged) Change {
	tmp.apply()
	return tmp.change
}

// RenameField moves the value at a dotted path to a new key within the same
// parent mapping. The source must exist and the target must be free.
type RenameField struct {
	Doc  *Document
	Path string
	To   string // new final key, within the same parent mapping
}

// MayFail validates the source key, the target key name, and that the
// target is unoccupied.
func (e RenameField) MayFail() (Staged, error) {
	parent, key, err := e.Doc.resolveParent(e.Path)
	if err != nil {
		return Staged{}, err
	}
	if e.To == "" {
		return Staged{}, &EditError{Code: ErrCodeInvalidPath, Path: e.Path, Message: "rename target is empty"}
	}
	value, existed := parent[key]
	if !existed {
		return Staged{}, &EditError{Code: ErrCodeMissingKey, Path: e.Path, Message: "key does not exist"}
	}
	if _, occupied := parent[e.To]; occupied {
		return Staged{}, &EditError{
			Code:    ErrCodeKeyExists,
			Path:    e.Path,
			Message: fmt.Sprintf("rename target %q already exists", e.To),
		}
	}
	return Staged{
		apply: func() {
			parent[e.To] = value
			delete(parent, key)
		},
		change: Change{Op: OpRename, Path: e.Path, Previous: value, Replaced: true},
	}, nil
}

// Commit performs the resolved move.
func (e RenameField) Commit(tmp Staged) Change {
	tmp.apply()
	return tmp.change
}

// Batch applies a list of edits all-or-nothing.
//
// Batch satisfies the invocation contract itself: its fallible phase
// validates every edit against the starting snapshot of the document, so a
// batch with one bad edit applies nothing. The core combinator stays
// pairwise; Batch is an implementer-side composite for the homogeneous case
// where the chain length is only known at runtime.
//
// Edits in one batch must target independent paths: validation does not see
// the effect of earlier edits in the same batch.
type Batch struct {
	Doc   *Document
	Edits []Edit
}

// MayFail validates every edit, left to right, short-circuiting on the
// first rejection.
func (b Batch) MayFail() ([]Staged, error) {
	states := make([]Staged, 0, len(b.Edits))
	for _, e := range b.Edits {
		tmp, err := e.MayFail()
		if err != nil {
			return nil, err
		}
		states = append(states, tmp)
	}
	return states, nil
}

// Commit applies every edit in order and returns all change records.
func (b Batch) Commit(tmps []Staged) []Change {
	changes := make([]Change, len(tmps))
	for i, e := range b.Edits {
		changes[i] = e.Commit(tmps[i])
	}
	return changes
}
