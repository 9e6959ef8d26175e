package model

import (
	"errors"
)

var (
	// ErrNoMatch signals a candidate pattern absent from the binary. It is
	// never an error condition of the pipeline, only a per-candidate outcome.
	ErrNoMatch = errors.New("no match")
)
