package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/searchops/internal/operator"
)

// OperatorPath is the top-level field holding operator definitions.
const OperatorPath = "operator"

// Struct entry fields.
const (
	fieldQueryVar = "query_var"
	fieldKeyAlias = "key"
	fieldPattern  = "pattern"
)

// File is the compiled content of one operator definition source.
type File struct {
	// Set holds the raw entries in declaration order.
	Set *operator.RawSet

	// Positions maps each operator key to the position of its value.
	Positions map[string]token.Pos
}

// CompileFile compiles the operator struct found at OperatorPath in v.
// A value without operator definitions compiles to an empty File.
func CompileFile(v cue.Value) (*File, error) {
	return firstError(CompileFileAll(v))
}

// CompileFileAll is CompileFile without fail-fast: entries with shape
// errors are skipped and every error is returned. The File is nil only when
// v itself cannot be compiled.
func CompileFileAll(v cue.Value) (*File, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	opVal := v.LookupPath(cue.ParsePath(OperatorPath))
	if !opVal.Exists() {
		return newFile(), nil
	}
	return CompileOperatorsAll(opVal)
}

// CompileOperators parses a CUE struct of operator entries into a File.
// Uses the CUE SDK's Go API directly.
//
// Each field is one operator: a string value is the pattern shorthand, a
// struct carries query_var (or its alias key) and pattern.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`operator: { page_id: "[1-9]\\d*" }`)
//	f, err := CompileOperators(v.LookupPath(cue.ParsePath("operator")))
//
// Only shape is checked here; pattern and query variable rules are applied
// by operator.Build, or reported up front by Validate.
func CompileOperators(v cue.Value) (*File, error) {
	return firstError(CompileOperatorsAll(v))
}

// CompileOperatorsAll is CompileOperators without fail-fast.
func CompileOperatorsAll(v cue.Value) (*File, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, []error{&CompileError{
			Field:   OperatorPath,
			Message: fmt.Sprintf("must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}}
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var errs []error
	f := newFile()
	for iter.Next() {
		key := iter.Label()
		entry := iter.Value()

		spec, err := compileEntry(key, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Set.Put(key, spec)
		f.Positions[key] = entry.Pos()
	}

	return f, errs
}

func firstError(f *File, errs []error) (*File, error) {
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return f, nil
}

// Provider returns an operator.Provider that writes f's entries into the
// collected set, overwriting entries with the same key.
func (f *File) Provider() operator.Provider {
	return func(set *operator.RawSet) {
		set.Merge(f.Set)
	}
}

func newFile() *File {
	return &File{
		Set:       operator.NewRawSet(),
		Positions: make(map[string]token.Pos),
	}
}

// compileEntry converts one operator value into its raw Spec.
func compileEntry(key string, v cue.Value) (operator.Spec, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return operator.Pattern(s), nil
	case cue.StructKind:
		return compileStructured(key, v)
	default:
		return nil, &CompileError{
			Field:   key,
			Message: fmt.Sprintf("operator must be a string or struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func compileStructured(key string, v cue.Value) (operator.Spec, error) {
	var (
		spec     operator.Structured
		varField string
	)

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		field := iter.Value()
		path := key + "." + name

		switch name {
		case fieldQueryVar, fieldKeyAlias:
			if varField != "" {
				return nil, &CompileError{
					Field:   path,
					Message: fmt.Sprintf("%s and %s are mutually exclusive", fieldQueryVar, fieldKeyAlias),
					Pos:     field.Pos(),
				}
			}
			varField = name
			s, err := stringField(path, field)
			if err != nil {
				return nil, err
			}
			spec.QueryVar = s
		case fieldPattern:
			s, err := stringField(path, field)
			if err != nil {
				return nil, err
			}
			spec.Pattern = s
		default:
			return nil, &CompileError{
				Field:   path,
				Message: "unknown field",
				Pos:     field.Pos(),
			}
		}
	}

	// A missing pattern compiles to an empty one; operator.Build drops the
	// entry with E202 like any other empty pattern.
	return spec, nil
}

func stringField(path string, v cue.Value) (string, error) {
	if v.IncompleteKind() != cue.StringKind {
		return "", &CompileError{
			Field:   path,
			Message: fmt.Sprintf("must be a string, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	s, err := v.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}
