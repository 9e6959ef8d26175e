// Package binscan locates candidate byte patterns inside a target binary.
package binscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/binaudit/litseek/internal/log"
	"github.com/binaudit/litseek/internal/model"
)

// Scanner runs exact-match searches of candidate patterns over one binary
// loaded fully in memory. The buffer is immutable after Load, so concurrent
// candidate scans need no locking.
type Scanner struct {
	limit int
	path  string
	data  []byte
}

func New(limit int) *Scanner {
	if limit < 1 {
		limit = 1
	}
	return &Scanner{limit: limit}
}

// Load reads the whole target binary eagerly. Any failure here is fatal to
// the run.
func (s *Scanner) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%q is not a valid file path", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading binary %s: %w", path, err)
	}
	s.path = path
	s.data = data
	return nil
}

// Scan searches every candidate and returns a confirmed leak for each
// pattern present in the binary, at its lowest matching offset. Candidates
// with no match or with empty bytes produce nothing, never an error. Output
// order is unspecified, ordering belongs to report assembly.
func (s *Scanner) Scan(ctx context.Context, candidates []model.PotentialLeak) ([]model.ConfirmedLeak, error) {
	confirmed := make([]model.ConfirmedLeak, 0, len(candidates))
	for leak, err := range newParallelMap(ctx, s.limit, s.scanOne).iter(all(candidates)) {
		switch {
		case err == nil:
			confirmed = append(confirmed, leak)
		case errors.Is(err, model.ErrNoMatch):
			// absence is not an error
		default:
			return nil, err
		}
	}
	return confirmed, nil
}

func (s *Scanner) scanOne(ctx context.Context, leak model.PotentialLeak) (model.ConfirmedLeak, error) {
	if ctx.Err() != nil {
		return model.ConfirmedLeak{}, ctx.Err()
	}
	if len(leak.Bytes) == 0 {
		// an empty pattern would degenerate to a universal match at offset 0
		return model.ConfirmedLeak{}, model.ErrNoMatch
	}
	offset := bytes.Index(s.data, leak.Bytes)
	if offset < 0 {
		return model.ConfirmedLeak{}, model.ErrNoMatch
	}

	ctx = log.ContextAttrs(ctx, slog.String("literal", leak.LeakedInformation))
	slog.DebugContext(ctx, "confirmed leak", "offset", offset)

	return model.ConfirmedLeak{
		LeakedInformation: leak.LeakedInformation,
		Location: model.LeakLocation{
			Source: model.SourceLocation{File: leak.File, Line: leak.Line},
			Binary: model.BinaryLocation{File: s.path, Offset: uint64(offset)},
		},
	}, nil
}

func all(candidates []model.PotentialLeak) iter.Seq2[model.PotentialLeak, error] {
	return func(yield func(model.PotentialLeak, error) bool) {
		for _, candidate := range candidates {
			if !yield(candidate, nil) {
				return
			}
		}
	}
}

type result[D any] struct {
	d D
	e error
}

// pMap fans the mapFunc out over a bounded worker group and hands results
// back as an iterator. Canceling the parent context ends the processing.
type pMap[E, D any] struct {
	parentCtx    context.Context
	cancelParent context.CancelFunc
	g            *errgroup.Group
	gctx         context.Context
	mapped       chan result[D]
	mapFunc      func(context.Context, E) (D, error)
}

func newParallelMap[E, D any](parentCtx context.Context, limit int, mapFunc func(context.Context, E) (D, error)) *pMap[E, D] {
	parentCtx, cancelParent := context.WithCancel(parentCtx)
	g, gctx := errgroup.WithContext(parentCtx)
	g.SetLimit(limit + 1)

	mapped := make(chan result[D], limit)

	return &pMap[E, D]{
		parentCtx:    parentCtx,
		cancelParent: cancelParent,
		g:            g,
		gctx:         gctx,
		mapped:       mapped,
		mapFunc:      mapFunc,
	}
}

func (s *pMap[E, D]) goWorkers(seq iter.Seq2[E, error]) {
	s.g.Go(func() error {
		for entry, nerr := range seq {
			if nerr != nil {
				continue
			}
			s.g.Go(func() error {
				d, scanErr := s.mapFunc(s.gctx, entry)
				select {
				case <-s.gctx.Done():
					return s.gctx.Err()
				default:
					s.mapped <- result[D]{d: d, e: scanErr}
				}
				return nil
			})
		}
		return nil
	})
}

func (s *pMap[E, D]) iter(seq iter.Seq2[E, error]) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		defer s.cancelParent()
		s.goWorkers(seq)

		go func() {
			_ = s.g.Wait()
			close(s.mapped)
		}()

		for r := range s.mapped {
			if s.parentCtx.Err() != nil {
				return
			}
			if !yield(r.d, r.e) {
				return
			}
		}
	}
}
