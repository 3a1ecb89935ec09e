package api

import (
	"errors"

	"github.com/starford/modeswitch/internal/journal"
	"github.com/starford/modeswitch/internal/statusfile"
)

// ErrJournalDisabled is returned by History when no journal is configured.
var ErrJournalDisabled = errors.New("journal disabled")

// Service coordinates the status store and the optional journal for the
// API and MCP layers.
type Service struct {
	store     *statusfile.Store
	journal   journal.Recorder
	maxStatus int
	label     func(int) string
}

// NewService creates a new Service. rec may be nil when the journal is
// disabled; label resolves a status value to its mode name.
func NewService(store *statusfile.Store, rec journal.Recorder, maxStatus int, label func(int) string) *Service {
	if label == nil {
		label = func(int) string { return "" }
	}
	return &Service{store: store, journal: rec, maxStatus: maxStatus, label: label}
}

// Label resolves a status value to its mode name.
func (s *Service) Label(value int) string {
	return s.label(value)
}

// MaxStatus returns the configured default rotation bound.
func (s *Service) MaxStatus() int {
	return s.maxStatus
}

// Status reads the current status from the file.
func (s *Service) Status() (StatusResponse, error) {
	v, err := s.store.Read()
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{Value: v, Label: s.label(v), File: s.store.Path()}, nil
}

// Rotate advances the status within [0, max] and records the transition.
// max < 0 selects the configured default.
func (s *Service) Rotate(max int, source string) (statusfile.Rotation, error) {
	if max < 0 {
		max = s.maxStatus
	}
	r, err := s.store.Rotate(max)
	if err != nil {
		return statusfile.Rotation{}, err
	}
	s.record(journal.Entry{Old: r.Old, New: r.New, Max: max, Source: source})
	return r, nil
}

// Set writes an explicit status value, creating the file when absent.
// The recorded old value is -1 when the prior contents were unreadable.
func (s *Service) Set(value int, source string) error {
	old, err := s.store.Read()
	if err != nil {
		old = -1
	}
	if err := s.store.Write(value); err != nil {
		return err
	}
	s.record(journal.Entry{Old: old, New: value, Max: s.maxStatus, Source: source})
	return nil
}

// History returns recent journal entries, newest first.
func (s *Service) History(limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.Recent(limit)
}

// record appends to the journal when one is configured. Journal failures
// never fail the rotation itself.
func (s *Service) record(e journal.Entry) {
	if s.journal == nil {
		return
	}
	_ = s.journal.Record(e)
}
