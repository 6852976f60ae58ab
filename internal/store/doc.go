// Package store provides SQLite-backed parse history.
//
// Every parse request handled with a database configured is appended as one
// row of the parses table: the raw search text, the residual, the extracted
// fields as canonical JSON and their fingerprint.
//
// # Identity and Ordering
//
//   - Rows are identified by UUIDv7 request ids (see UUIDv7Generator).
//   - Ordering uses the seq column, a logical clock resumed from the last
//     stored value; wall time is never consulted.
//   - Reads are ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Field fingerprints come from ir.Fingerprint, so two requests that
// extracted the same fields share a fingerprint regardless of how the
// operators were written in the search text.
package store
