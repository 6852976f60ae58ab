// Package pattern compiles an operator registry into a single match
// expression and scans search text with it.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/searchops/internal/operator"
)

// Boundaries wrapped around the alternation.
//
// Go's regexp (RE2) has no lookahead, so the trailing boundary is either a
// word boundary, end of text, or one non-word delimiter that is consumed by
// the match but kept out of the token group. This lets values ending in a
// non-word character (a closing quote) match before a space or at the end.
const (
	leadingBoundary  = `\b`
	trailingBoundary = `(?:\b|$|\W)`
)

// Compiled is the alternation of every operator fragment in registry order.
//
// Alternation is leftmost-first, as in backtracking engines: when two
// fragments match at the same position the earlier registered one wins.
type Compiled struct {
	re *regexp.Regexp

	// groups[i] is the submatch index of the fragment for keys[i].
	groups []int
	keys   []string
}

// Match is one operator token found in search text.
type Match struct {
	// Key is the operator key whose fragment matched.
	Key string

	// Token is the full key:value text, without the trailing delimiter.
	Token string
}

// Compile builds the combined expression for reg.
//
// Each operator with a pattern contributes `(<quoted key>:(?:<pattern>))`;
// the non-capturing group keeps a top-level | in a pattern inside its fragment.
// Returns nil with no error when there are no fragments, meaning there is
// nothing to parse.
func Compile(reg *operator.Registry) (*Compiled, error) {
	var (
		fragments []string
		groups    []int
		keys      []string
	)

	next := 1
	for _, def := range reg.Definitions() {
		if def.Pattern == "" {
			continue
		}
		inner, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("operator %q: %w", def.Key, err)
		}

		fragments = append(fragments, operator.Fragment(def.Key, def.Pattern))
		groups = append(groups, next)
		keys = append(keys, def.Key)
		next += 1 + inner.NumSubexp()
	}

	if len(fragments) == 0 {
		return nil, nil
	}

	expr := leadingBoundary + "(?:" + strings.Join(fragments, "|") + ")" + trailingBoundary
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile operator pattern: %w", err)
	}

	return &Compiled{re: re, groups: groups, keys: keys}, nil
}

// MustCompile is like Compile but panics on error.
// Use only in tests or with registries built by operator.Build.
func MustCompile(reg *operator.Registry) *Compiled {
	c, err := Compile(reg)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the combined expression source.
func (c *Compiled) String() string {
	if c == nil {
		return ""
	}
	return c.re.String()
}

// Find returns every non-overlapping operator token in search, in order of
// appearance.
func (c *Compiled) Find(search string) []Match {
	if c == nil {
		return nil
	}

	locs := c.re.FindAllStringSubmatchIndex(search, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		for i, g := range c.groups {
			start, end := loc[2*g], loc[2*g+1]
			if start < 0 {
				continue
			}
			matches = append(matches, Match{Key: c.keys[i], Token: search[start:end]})
			break
		}
	}
	return matches
}
