// Package queryargs connects the operator parser to a host's query
// arguments.
//
// Hosts pass query arguments in one of two shapes:
//   - Args: a plain mapping. Parsing returns a copy with the resolved
//     variables replaced; the input map is not modified.
//   - Any other Query implementation (for example *Vars): a stateful object
//     behind Get/Set accessors. Parsing sets the resolved variables on it
//     and returns the same object.
//
// The parser core never sees this distinction; only this package branches
// on the input shape.
//
// BYPASS AND MALFORMED INPUT:
//
// When ignore_search_operators is truthy, or "s" is missing, empty or not a
// string, the query is returned unchanged. Parsing never fails: problems
// with operator definitions are logged and the query passes through.
package queryargs
