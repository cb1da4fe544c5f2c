// Package tracker coordinates every write to the tracking state and serves
// filtered reads.
//
// # Critical Patterns
//
// CP-1: Store of Truth First
//   - Record writes the SQLite store before the CSV mirror. A mirror
//     failure never rolls back or fails the write; it is reported as a
//     non-fatal warning and the mirror is allowed to fall behind. Any
//     observer reading only the store never depends on the mirror having
//     succeeded.
//
// CP-2: Batches Don't Abort
//   - RecordMany applies the same per-record ordering and continues past
//     individual failures, returning one outcome per record.
//
// CP-3: Validate at the Boundary
//   - Query parameters (pagination, date bounds) are validated here;
//     malformed input fails with ErrInvalidQuery before reaching storage.
package tracker
