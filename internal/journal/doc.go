// Package journal provides a SQLite-backed append-only record of executed
// invocations.
//
// The journal is an audit trail, not part of the atomicity guarantee: an
// invocation's outcome is decided entirely by its own two phases, and the
// journal records that outcome after the fact. Each entry carries a
// time-sortable UUIDv7 id and a caller-assigned logical sequence number;
// listings order by seq then id for deterministic output.
package journal
