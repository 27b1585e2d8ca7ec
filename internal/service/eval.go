package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/store"
)

// ErrEvalsDisabled is returned by every EvalService method when no database
// is configured.
var ErrEvalsDisabled = errors.New("eval logging is not configured")

const (
	DefaultEvalListLimit   int32 = 50
	MaxEvalListLimit       int32 = 200
	DefaultEvalStatsWindow       = 24 * time.Hour
)

// EvalService reads back the generation-call records written during runs.
type EvalService interface {
	Get(ctx context.Context, id int64) (*model.LLMEval, error)
	ListByRun(ctx context.Context, runID string) ([]model.LLMEval, error)
	ListByStage(ctx context.Context, stage model.Stage, limit int32) ([]model.LLMEval, error)
	// Stats aggregates a stage's records since the given time. A zero since
	// covers the last DefaultEvalStatsWindow.
	Stats(ctx context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error)
}

type evalService struct {
	store store.LLMEvalStore
	now   func() time.Time
}

// NewEvalService builds the eval service. evals may be nil, in which case
// every method returns ErrEvalsDisabled.
func NewEvalService(evals store.LLMEvalStore) EvalService {
	return &evalService{store: evals, now: time.Now}
}

func (s *evalService) Get(ctx context.Context, id int64) (*model.LLMEval, error) {
	if s.store == nil {
		return nil, ErrEvalsDisabled
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: eval id must be positive", brain.ErrValidation)
	}
	return s.store.GetByID(ctx, id)
}

func (s *evalService) ListByRun(ctx context.Context, runID string) ([]model.LLMEval, error) {
	if s.store == nil {
		return nil, ErrEvalsDisabled
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", brain.ErrValidation)
	}
	return s.store.ListByRun(ctx, runID)
}

func (s *evalService) ListByStage(ctx context.Context, stage model.Stage, limit int32) ([]model.LLMEval, error) {
	if s.store == nil {
		return nil, ErrEvalsDisabled
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", brain.ErrValidation, stage)
	}

	switch {
	case limit <= 0:
		limit = DefaultEvalListLimit
	case limit > MaxEvalListLimit:
		limit = MaxEvalListLimit
	}
	return s.store.ListByStage(ctx, stage, limit)
}

func (s *evalService) Stats(ctx context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error) {
	if s.store == nil {
		return nil, ErrEvalsDisabled
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", brain.ErrValidation, stage)
	}
	if since.IsZero() {
		since = s.now().Add(-DefaultEvalStatsWindow)
	}
	return s.store.GetStats(ctx, stage, since)
}
