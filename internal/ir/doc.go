// Package ir provides the value representation handed from the parser to
// the query layer.
//
// A parse produces Fields: a mapping from query variable names to Values.
// A Value is either a String (first occurrence of a query variable) or a
// List (second and later occurrences, in first-seen order).
//
// This package imports nothing internal. Every other internal package may
// import ir; ir remains the foundational layer.
//
// Key design constraints:
//   - Value is sealed: only String and List implement it
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for fingerprints and golden snapshots
//   - All JSON tags use snake_case
package ir
