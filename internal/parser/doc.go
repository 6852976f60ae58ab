// Package parser extracts operator tokens from free search text.
//
// Given "hello world title:community" and the default operators, Parse
// returns the fields {title: "community", s: "hello world"}: every matched
// key:value token is removed from the text, its value is stored under the
// operator's query variable, and the trimmed remainder is stored under the
// reserved search variable "s".
//
// # Algorithm
//
//  1. Text without a ':' or a registry without operators is passed through:
//     no fields, residual equal to the input.
//  2. The compiled pattern is applied; no match is also a pass-through.
//  3. For each match in order of appearance the token is split on its first
//     ':'. Keys missing from the registry are skipped.
//  4. One layer of matching single or double quotes is stripped from the
//     value, then surrounding whitespace.
//  5. The first value of a query variable is stored as ir.String; repeats
//     upgrade it to an ir.List in first-seen order.
//  6. Every occurrence of the exact token text is removed from the search
//     text, not only the matched position.
//  7. The trimmed remainder is stored under "s".
//
// Parse is a pure function of its inputs. Parser bundles a registry with its
// compiled pattern for callers that parse many strings with the same
// operators.
package parser
