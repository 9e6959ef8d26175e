// Package source enumerates string-literal entities of translation units.
// The Provider interface is the seam between the leak pipeline and whichever
// parsing backend is in use; swapping the backend must not touch the catalog.
package source

import (
	"context"

	"github.com/binaudit/litseek/internal/compiledb"
)

// Literal is one string-literal occurrence in a translation unit.
type Literal struct {
	// Text is the raw lexical text, quotes and encoding prefix included.
	Text string
	// File and Line locate the declaration (1-based line).
	File string
	Line uint32
	// InSystemHeader marks literals declared in system headers.
	InSystemHeader bool
}

// Provider enumerates the string literals of one translation unit, in
// document order. A failure to read or parse the unit is fatal to the run.
type Provider interface {
	Literals(ctx context.Context, cmd compiledb.CompileCommand) ([]Literal, error)
}
