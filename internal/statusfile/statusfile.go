// Package statusfile reads and rewrites the mode number kept in a
// single-line status file shared with an external consumer.
package statusfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/starford/modeswitch/internal/apperr"
)

// trailingDigits matches a digit run anchored at the end of the first line.
// The anchor is deliberately end-only: a line like "status: 5" is valid and
// reads as 5. Kept for compatibility with the original status-file grammar.
var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// Rotation is the outcome of a successful rotate.
type Rotation struct {
	Old int
	New int
}

// Store reads and rewrites one status file.
type Store struct {
	path string
}

// New creates a Store bound to path. The file itself is not touched;
// Read and Rotate require it to exist, Write creates it.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the bound file path.
func (s *Store) Path() string {
	return s.path
}

// Read parses the current status from the first line of the file.
// A missing file maps to apperr.ErrNotFound; a first line without a
// trailing digit run maps to apperr.ErrInvalidState.
func (s *Store) Read() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("statusfile: %s: %w", s.path, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("statusfile: read %s: %w", s.path, err)
	}

	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimRight(line, "\r")

	digits := trailingDigits.FindString(line)
	if digits == "" {
		return 0, fmt.Errorf("statusfile: %s: first line %q has no trailing number: %w",
			s.path, line, apperr.ErrInvalidState)
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("statusfile: %s: first line %q has no trailing number: %w",
			s.path, line, apperr.ErrInvalidState)
	}
	return value, nil
}

// Write replaces the file's entire contents with value and a trailing
// newline: tmp file → fsync → rename. Creates the file when absent.
func (s *Store) Write(value int) error {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("statusfile: resolve %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".modeswitch-tmp-*")
	if err != nil {
		return fmt.Errorf("statusfile: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := fmt.Fprintf(tmp, "%d\n", value); err != nil {
		return fmt.Errorf("statusfile: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("statusfile: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statusfile: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("statusfile: rename: %w", err)
	}
	success = true
	return nil
}

// Rotate advances the stored status to (current+1) mod (max+1) and returns
// the transition. Validation runs before the write, so on any error the
// file is left untouched.
func (s *Store) Rotate(max int) (Rotation, error) {
	if max < 0 {
		return Rotation{}, fmt.Errorf("statusfile: max status %d is negative: %w", max, apperr.ErrUsage)
	}
	current, err := s.Read()
	if err != nil {
		return Rotation{}, err
	}
	next := (current + 1) % (max + 1)
	if err := s.Write(next); err != nil {
		return Rotation{}, err
	}
	return Rotation{Old: current, New: next}, nil
}
