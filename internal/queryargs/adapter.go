package queryargs

import (
	"log/slog"
	"strings"

	"github.com/roach88/searchops/internal/ir"
	"github.com/roach88/searchops/internal/operator"
	"github.com/roach88/searchops/internal/parser"
	"github.com/roach88/searchops/internal/pattern"
)

// Source supplies the operator registry for one request.
// *operator.Collector implements it.
type Source interface {
	Registry() *operator.Registry
}

// SourceFunc adapts a function to Source.
type SourceFunc func() *operator.Registry

// Registry calls f.
func (f SourceFunc) Registry() *operator.Registry {
	return f()
}

// Adapter applies search operators to host query arguments.
//
// Thread-safety: Adapter holds no mutable state. A fresh registry and
// pattern are built from its Source for every request.
type Adapter struct {
	source Source
	logger *slog.Logger
}

// New creates an Adapter. A nil logger uses slog.Default().
func New(source Source, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{source: source, logger: logger}
}

// ParseQuery resolves the operators in q's search variable and sets the
// resulting variables on q, which is returned.
func (a *Adapter) ParseQuery(q Query) Query {
	search, ok := a.searchTerm(q)
	if !ok {
		return q
	}
	return a.ParseSearchQuery(search, q)
}

// ParseArgs is ParseQuery for plain mappings: it returns a copy of args with
// the resolved variables replaced, or args itself when nothing applies.
func (a *Adapter) ParseArgs(args Args) Args {
	search, ok := a.searchTerm(args)
	if !ok {
		return args
	}
	return a.ParseSearchQuery(search, args).(Args)
}

// ParseSearchQuery resolves the operators in search and writes the result
// into q: Args are copied first, other Query values are updated in place.
// A nil q is treated as empty Args.
func (a *Adapter) ParseSearchQuery(search string, q Query) Query {
	if q == nil {
		q = Args{}
	}

	fields := a.resolve(search)
	if len(fields) == 0 {
		return q
	}

	if args, ok := q.(Args); ok {
		q = args.Clone()
	}
	for _, name := range fields.SortedKeys() {
		q.Set(name, ir.ToNative(fields[name]))
	}
	return q
}

// Resolve parses search with a fresh registry and returns the extracted
// fields, or an empty Fields when nothing applies.
func (a *Adapter) Resolve(search string) ir.Fields {
	return a.resolve(search)
}

func (a *Adapter) resolve(search string) ir.Fields {
	if !strings.Contains(search, ":") || a.source == nil {
		return ir.NewFields()
	}

	reg := a.source.Registry()
	compiled, err := pattern.Compile(reg)
	if err != nil {
		a.logger.Warn("search operator pattern unavailable", "error", err)
		return ir.NewFields()
	}

	res := parser.Parse(search, reg, compiled)
	if res.Matched() {
		a.logger.Debug("search operators applied",
			"matches", len(res.Applied),
			"residual", res.Residual,
		)
	}
	return res.Fields
}

// searchTerm reads the bypass flag and the search variable.
func (a *Adapter) searchTerm(q Query) (string, bool) {
	if q == nil {
		return "", false
	}
	if flag, _ := q.Get(IgnoreOperatorsVar); truthy(flag) {
		a.logger.Debug("search operators bypassed", "flag", IgnoreOperatorsVar)
		return "", false
	}

	raw, ok := q.Get(operator.SearchVar)
	if !ok {
		return "", false
	}
	search, ok := raw.(string)
	if !ok || search == "" {
		return "", false
	}
	return search, true
}
