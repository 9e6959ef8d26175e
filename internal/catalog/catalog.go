// Package catalog turns raw literal occurrences into the deduplicated,
// suppression-filtered set of candidate leaks.
package catalog

import (
	"context"
	"log/slog"

	"github.com/binaudit/litseek/internal/model"
	"github.com/binaudit/litseek/internal/source"
	"github.com/binaudit/litseek/internal/suppress"
	"github.com/binaudit/litseek/internal/transcode"
)

// Config controls which occurrences are admitted.
type Config struct {
	// IncludeSystemHeaders admits literals declared in system headers.
	IncludeSystemHeaders bool
	// MergeDuplicates keeps only the first admitted occurrence per literal
	// text; otherwise every occurrence becomes its own candidate.
	MergeDuplicates bool
}

type Builder struct {
	cfg   Config
	rules *suppress.Suppressions
	seen  map[string]struct{}
	leaks []model.PotentialLeak
}

func NewBuilder(cfg Config, rules *suppress.Suppressions) *Builder {
	return &Builder{
		cfg:   cfg,
		rules: rules,
		seen:  make(map[string]struct{}),
	}
}

// Add processes occurrences in encounter order. An occurrence is dropped
// when it sits in an excluded system header, its declaring file or its text
// is suppressed, or it fails transcoding. Dropping is never an error, a
// failed transcode is logged and the run continues.
func (b *Builder) Add(ctx context.Context, literals ...source.Literal) {
	for _, lit := range literals {
		if lit.InSystemHeader && !b.cfg.IncludeSystemHeaders {
			continue
		}
		if b.rules.FileSuppressed(lit.File) {
			continue
		}
		bytes, err := transcode.Transcode(lit.Text)
		if err != nil {
			slog.WarnContext(ctx, "dropping literal that failed transcoding",
				"literal", lit.Text, "file", lit.File, "line", lit.Line, "error", err)
			continue
		}
		if b.rules.ArtifactSuppressed(lit.Text) {
			continue
		}
		if b.cfg.MergeDuplicates {
			if _, ok := b.seen[lit.Text]; ok {
				continue
			}
			b.seen[lit.Text] = struct{}{}
		}
		b.leaks = append(b.leaks, model.PotentialLeak{
			LeakedInformation: lit.Text,
			Bytes:             bytes,
			File:              lit.File,
			Line:              lit.Line,
		})
	}
}

// Leaks returns the admitted candidates in encounter order.
func (b *Builder) Leaks() []model.PotentialLeak {
	return b.leaks
}
