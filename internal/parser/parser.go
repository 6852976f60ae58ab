package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/searchops/internal/ir"
	"github.com/roach88/searchops/internal/operator"
	"github.com/roach88/searchops/internal/pattern"
)

// Result is the outcome of parsing one search string.
type Result struct {
	// Fields maps query variables to extracted values. When any operator
	// was applied it also holds the residual text under operator.SearchVar.
	// Empty on pass-through.
	Fields ir.Fields `json:"fields"`

	// Residual is the search text left after removing operator tokens.
	// Equal to the input on pass-through.
	Residual string `json:"residual"`

	// Applied lists the tokens that produced fields, in order of appearance.
	Applied []pattern.Match `json:"-"`
}

// Matched reports whether any operator token was applied.
func (r Result) Matched() bool {
	return len(r.Applied) > 0
}

func passThrough(search string) Result {
	return Result{Fields: ir.NewFields(), Residual: search}
}

// Parse extracts the operators of reg from search.
// compiled must be pattern.Compile(reg); nil means there is nothing to parse.
func Parse(search string, reg *operator.Registry, compiled *pattern.Compiled) Result {
	if !strings.Contains(search, ":") || compiled == nil {
		return passThrough(search)
	}

	matches := compiled.Find(search)
	if len(matches) == 0 {
		return passThrough(search)
	}

	fields := ir.NewFields()
	residual := search
	var applied []pattern.Match

	for _, m := range matches {
		if m.Token == "" {
			continue
		}

		key, raw, ok := strings.Cut(m.Token, ":")
		if !ok {
			continue
		}

		// The pattern is compiled from reg, but a caller may pair it with a
		// different registry.
		def, ok := reg.Lookup(key)
		if !ok {
			continue
		}

		fields.Append(def.QueryVar, cleanValue(raw))
		residual = strings.ReplaceAll(residual, m.Token, "")
		applied = append(applied, m)
	}

	residual = strings.TrimSpace(residual)
	fields.Set(operator.SearchVar, ir.String(residual))

	return Result{Fields: fields, Residual: residual, Applied: applied}
}

// cleanValue strips one layer of matching quotes, then surrounding whitespace.
func cleanValue(raw string) string {
	if n := len(raw); n >= 2 {
		if q := raw[0]; (q == '"' || q == '\'') && raw[n-1] == q {
			raw = raw[1 : n-1]
		}
	}
	return strings.TrimSpace(raw)
}

// Parser parses search text against a fixed registry.
//
// Thread-safety: Parser is immutable after New and safe for concurrent use.
type Parser struct {
	registry *operator.Registry
	compiled *pattern.Compiled
	logger   *slog.Logger
}

// New compiles reg and returns a Parser for it.
// A nil logger uses slog.Default().
func New(reg *operator.Registry, logger *slog.Logger) (*Parser, error) {
	compiled, err := pattern.Compile(reg)
	if err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{registry: reg, compiled: compiled, logger: logger}, nil
}

// Registry returns the operators this Parser extracts.
func (p *Parser) Registry() *operator.Registry {
	return p.registry
}

// Pattern returns the compiled expression, or nil when there are no operators.
func (p *Parser) Pattern() *pattern.Compiled {
	return p.compiled
}

// Parse extracts operators from search.
func (p *Parser) Parse(search string) Result {
	res := Parse(search, p.registry, p.compiled)
	if res.Matched() {
		p.logger.Debug("search operators applied",
			"matches", len(res.Applied),
			"fields", len(res.Fields),
			"residual", res.Residual,
		)
	}
	return res
}
