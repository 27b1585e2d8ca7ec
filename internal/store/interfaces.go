package store

import (
	"context"
	"errors"
	"time"

	"basegraph.app/tracecase/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRunExists is returned by Claim when the session already holds a run.
	ErrRunExists = errors.New("session already has an active run")
	// ErrStateConflict is returned by Transition when the stored run is not in the expected state.
	ErrStateConflict = errors.New("run state conflict")
)

// RunStore holds at most one in-flight PipelineRun per session.
// Runs are removed with Release once their outcome is delivered; nothing expires on its own.
type RunStore interface {
	// Claim stores run for run.SessionID, failing with ErrRunExists if one is already held.
	Claim(ctx context.Context, run *model.PipelineRun) error
	Get(ctx context.Context, sessionID string) (*model.PipelineRun, error)
	// Transition replaces the stored run with run, provided the stored run has the
	// same ID (ErrNotFound otherwise) and is in state from (ErrStateConflict otherwise).
	Transition(ctx context.Context, run *model.PipelineRun, from model.RunState) error
	// Release deletes the session's run if its ID is runID. Releasing an absent run is not an error.
	Release(ctx context.Context, sessionID, runID string) error
}

// LLMEvalStore persists generation-call records for prompt review.
type LLMEvalStore interface {
	Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error)
	GetByID(ctx context.Context, id int64) (*model.LLMEval, error)
	ListByRun(ctx context.Context, runID string) ([]model.LLMEval, error)
	ListByStage(ctx context.Context, stage model.Stage, limit int32) ([]model.LLMEval, error)
	GetStats(ctx context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error)
}
