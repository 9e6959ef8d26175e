// Package suppress evaluates user rules excluding files or literal values
// from the report.
package suppress

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Suppressions holds two independent rule collections: file-path glob
// patterns and exact literal texts. The zero value and the nil pointer both
// suppress nothing.
type Suppressions struct {
	files     []string
	artifacts map[string]struct{}
}

// rulesFile is the on-disk YAML shape:
//
//	files:
//	  - "third_party/**"
//	artifacts:
//	  - '"debug build"'
type rulesFile struct {
	Files     []string `yaml:"files"`
	Artifacts []string `yaml:"artifacts"`
}

func Load(r io.Reader) (*Suppressions, error) {
	var rules rulesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing suppressions: %w", err)
	}

	// a broken pattern fails the load, not every later match
	for _, pattern := range rules.Files {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("file pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	s := Suppressions{
		files:     rules.Files,
		artifacts: make(map[string]struct{}, len(rules.Artifacts)),
	}
	for _, artifact := range rules.Artifacts {
		s.artifacts[artifact] = struct{}{}
	}
	return &s, nil
}

func LoadFile(path string) (*Suppressions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening suppressions file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}

// FileSuppressed reports whether any file glob pattern matches path.
// Matching is case-sensitive with doublestar semantics (*, ?, character
// classes, **).
func (s *Suppressions) FileSuppressed(path string) bool {
	if s == nil {
		return false
	}
	for _, pattern := range s.files {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	return false
}

// ArtifactSuppressed reports whether text exactly equals a suppressed
// artifact.
func (s *Suppressions) ArtifactSuppressed(text string) bool {
	if s == nil {
		return false
	}
	_, ok := s.artifacts[text]
	return ok
}
