package model

import (
	"cmp"
	"strings"
)

// PotentialLeak is a candidate leak extracted from source code.
//
// Identity is defined by LeakedInformation alone: two occurrences with the
// same lexical text are the same leak, no matter where they were declared or
// what bytes they transcode to. The merge mode of the catalog relies on this,
// so do not extend the identity to Bytes or the declaration location.
type PotentialLeak struct {
	// LeakedInformation is the literal's raw lexical text as written in
	// source, quotes and encoding prefix included.
	LeakedInformation string
	// Bytes is the byte pattern a conforming compiler embeds in the binary
	// for this literal.
	Bytes []byte
	// File and Line locate the declaring occurrence (1-based line).
	File string
	Line uint32
}

// SourceLocation is where a leaked literal is declared.
type SourceLocation struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
}

// BinaryLocation is where a leaked literal was found in a binary.
type BinaryLocation struct {
	File   string `json:"file"`
	Offset uint64 `json:"offset"`
}

type LeakLocation struct {
	Source SourceLocation `json:"source"`
	Binary BinaryLocation `json:"binary"`
}

// ConfirmedLeak is a potential leak whose bytes were located in a binary.
type ConfirmedLeak struct {
	LeakedInformation string       `json:"leaked_information"`
	Location          LeakLocation `json:"location"`
}

// CompareConfirmedLeaks is the total order used for reporting: literal text,
// then binary offset, then binary file, then source file, then source line.
// It is a pure function of the leak's fields, so re-running the pipeline on
// unchanged inputs yields an identical ordered result.
func CompareConfirmedLeaks(a, b ConfirmedLeak) int {
	if c := strings.Compare(a.LeakedInformation, b.LeakedInformation); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Location.Binary.Offset, b.Location.Binary.Offset); c != 0 {
		return c
	}
	if c := strings.Compare(a.Location.Binary.File, b.Location.Binary.File); c != 0 {
		return c
	}
	if c := strings.Compare(a.Location.Source.File, b.Location.Source.File); c != 0 {
		return c
	}
	return cmp.Compare(a.Location.Source.Line, b.Location.Source.Line)
}
