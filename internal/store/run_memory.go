package store

import (
	"context"
	"sync"

	"basegraph.app/tracecase/internal/model"
)

type memoryRunStore struct {
	mu   sync.Mutex
	runs map[string]model.PipelineRun
}

// NewMemoryRunStore keeps runs in process memory. Suitable for the CLI, tests
// and single-replica servers.
func NewMemoryRunStore() RunStore {
	return &memoryRunStore{runs: make(map[string]model.PipelineRun)}
}

func (s *memoryRunStore) Claim(_ context.Context, run *model.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.SessionID]; ok {
		return ErrRunExists
	}
	s.runs[run.SessionID] = copyRun(run)
	return nil
}

func (s *memoryRunStore) Get(_ context.Context, sessionID string) (*model.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyRun(&run)
	return &out, nil
}

func (s *memoryRunStore) Transition(_ context.Context, run *model.PipelineRun, from model.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.runs[run.SessionID]
	if !ok || current.ID != run.ID {
		return ErrNotFound
	}
	if current.State != from {
		return ErrStateConflict
	}
	s.runs[run.SessionID] = copyRun(run)
	return nil
}

func (s *memoryRunStore) Release(_ context.Context, sessionID, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.runs[sessionID]; ok && current.ID == runID {
		delete(s.runs, sessionID)
	}
	return nil
}

func copyRun(run *model.PipelineRun) model.PipelineRun {
	out := *run
	if run.Questions != nil {
		out.Questions = append([]string(nil), run.Questions...)
	}
	return out
}
