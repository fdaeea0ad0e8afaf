package inmemorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/specialistvlad/nxload/internal/dataset"
)

// Status is the lifecycle state of one source file.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	// StatusCompleted: every record converted without error.
	StatusCompleted
	// StatusPartial: records were produced but some conversions reported errors.
	StatusPartial
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store keeps per-file outcomes keyed by source path.
//
//   - states: path -> Status
//   - outputs: path -> []dataset.Summary
//   - errors: path -> error
type Store struct {
	states  sync.Map
	outputs sync.Map
	errors  sync.Map
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// SetStatus updates the status of file.
func (s *Store) SetStatus(ctx context.Context, file string, status Status) error {
	s.states.Store(file, status)
	return nil
}

// GetStatus returns the status of file, StatusPending if it was never set.
func (s *Store) GetStatus(ctx context.Context, file string) (Status, error) {
	status, ok := s.states.Load(file)
	if !ok {
		return StatusPending, nil
	}
	return status.(Status), nil
}

// SetOutput records the summaries of the records converted from file.
func (s *Store) SetOutput(ctx context.Context, file string, summaries []dataset.Summary) error {
	s.outputs.Store(file, summaries)
	return nil
}

// GetOutput returns the recorded summaries of file, nil if none.
func (s *Store) GetOutput(ctx context.Context, file string) ([]dataset.Summary, error) {
	out, ok := s.outputs.Load(file)
	if !ok {
		return nil, nil
	}
	return out.([]dataset.Summary), nil
}

// SetError records the error a file's conversion ended with.
func (s *Store) SetError(ctx context.Context, file string, fileErr error) error {
	s.errors.Store(file, fileErr)
	return nil
}

// GetError returns the recorded error of file, nil if none.
func (s *Store) GetError(ctx context.Context, file string) (error, error) {
	err, ok := s.errors.Load(file)
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}

// Files returns every file with a status, sorted.
func (s *Store) Files(ctx context.Context) []string {
	var files []string
	s.states.Range(func(k, _ any) bool {
		files = append(files, k.(string))
		return true
	})
	sort.Strings(files)
	return files
}

// Count returns how many files are in each status.
func (s *Store) Count(ctx context.Context) map[Status]int {
	counts := make(map[Status]int)
	s.states.Range(func(_, v any) bool {
		counts[v.(Status)]++
		return true
	})
	return counts
}
