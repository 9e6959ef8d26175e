// Package report orders, deduplicates and serializes confirmed leaks.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"slices"

	"github.com/binaudit/litseek/internal/model"
)

// FormatVersion stamps the structured document so consumers can detect
// incompatible schema changes.
const FormatVersion = 1

var executableVersion = "unknown"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		executableVersion = info.Main.Version
	}
}

type Version struct {
	Executable string `json:"executable"`
	Format     int    `json:"format"`
}

// Document is the structured report shape.
type Document struct {
	Version Version               `json:"version"`
	Leaks   []model.ConfirmedLeak `json:"leaks"`
}

// Assemble sorts confirmed leaks under their total order and collapses exact
// duplicates. Identical pipeline inputs always produce an identical slice.
func Assemble(leaks []model.ConfirmedLeak) []model.ConfirmedLeak {
	sorted := slices.Clone(leaks)
	if sorted == nil {
		sorted = []model.ConfirmedLeak{}
	}
	slices.SortFunc(sorted, model.CompareConfirmedLeaks)
	return slices.CompactFunc(sorted, func(a, b model.ConfirmedLeak) bool {
		return model.CompareConfirmedLeaks(a, b) == 0
	})
}

// WriteText emits one line per confirmed leak.
func WriteText(w io.Writer, leaks []model.ConfirmedLeak) error {
	for _, leak := range leaks {
		_, err := fmt.Fprintf(w, "%s leaked at offset 0x%x in %q [declared at %s:%d]\n",
			leak.LeakedInformation,
			leak.Location.Binary.Offset,
			leak.Location.Binary.File,
			leak.Location.Source.File,
			leak.Location.Source.Line,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON emits the structured document with its format-version stamp.
func WriteJSON(w io.Writer, leaks []model.ConfirmedLeak) error {
	doc := Document{
		Version: Version{
			Executable: executableVersion,
			Format:     FormatVersion,
		},
		Leaks: leaks,
	}
	return json.NewEncoder(w).Encode(doc)
}
