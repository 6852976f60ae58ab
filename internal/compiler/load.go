package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadFile compiles a single CUE file of operator definitions.
// Packages spanning several files are loaded by the CLI loader instead.
func LoadFile(path string) (*File, error) {
	return firstError(LoadFileAll(path))
}

// LoadFileAll is LoadFile without fail-fast: entries with shape errors are
// skipped. The File is nil only when the file cannot be read or compiled.
func LoadFileAll(path string) (*File, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("read operator file: %w", err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}
	return CompileFileAll(v)
}
