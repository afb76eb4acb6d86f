// Package docstore provides atomic edits over in-memory YAML documents.
//
// A Document is a parsed YAML mapping. Edits to it (set, delete, rename) are
// expressed as invocations: each edit validates its dotted path against the
// unmodified document in its fallible phase and resolves the exact parent
// mapping it will touch, so that its commit phase is a plain map operation
// that cannot fail. A document is therefore never left half-edited: an edit
// either applies completely or rejects without trace.
//
// Batch extends the same guarantee to a whole list of edits. Every edit is
// validated against the starting snapshot before any of them applies, so a
// batch with one bad edit applies nothing. Edits within one batch must
// target independent paths: validation sees the document as it was before
// the batch, not the effect of earlier edits in the same batch.
package docstore
