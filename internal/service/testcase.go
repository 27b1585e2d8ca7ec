package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/model"
)

// Pipeline is the run lifecycle the service drives. *brain.Orchestrator
// satisfies it.
type Pipeline interface {
	Invoke(ctx context.Context, sessionID string, input model.RequirementInput) (*brain.Outcome, error)
	Resume(ctx context.Context, handle model.PendingRun, reply model.ClarificationReply) (*model.GenerationResult, error)
	State(ctx context.Context, sessionID string) (model.RunState, *model.PendingRun, error)
}

type RunStatus struct {
	State   model.RunState
	Pending *model.PendingRun
}

type TestCaseService interface {
	Generate(ctx context.Context, sessionID string, input model.RequirementInput) (*brain.Outcome, error)
	Resume(ctx context.Context, sessionID, runID string, reply model.ClarificationReply) (*model.GenerationResult, error)
	Status(ctx context.Context, sessionID string) (*RunStatus, error)
}

type testCaseService struct {
	pipeline Pipeline
}

func NewTestCaseService(pipeline Pipeline) TestCaseService {
	return &testCaseService{pipeline: pipeline}
}

func (s *testCaseService) Generate(ctx context.Context, sessionID string, input model.RequirementInput) (*brain.Outcome, error) {
	input.Text = strings.TrimSpace(input.Text)

	outcome, err := s.pipeline.Invoke(ctx, strings.TrimSpace(sessionID), input)
	if err != nil {
		return nil, err
	}

	if outcome.Result != nil {
		summary := outcome.Result.Summary()
		slog.InfoContext(ctx, "test cases generated",
			"session_id", sessionID,
			"run_id", outcome.RunID,
			"total", summary.Total,
			"feature_gaps", len(outcome.Result.FeatureGaps))
	}
	return outcome, nil
}

func (s *testCaseService) Resume(ctx context.Context, sessionID, runID string, reply model.ClarificationReply) (*model.GenerationResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	runID = strings.TrimSpace(runID)
	if sessionID == "" || runID == "" {
		return nil, fmt.Errorf("%w: session id and run id are required", brain.ErrValidation)
	}

	result, err := s.pipeline.Resume(ctx, model.PendingRun{SessionID: sessionID, RunID: runID}, reply)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "test cases generated after clarification",
		"session_id", sessionID,
		"run_id", runID,
		"skipped", reply.Skip,
		"total", len(result.TestCases))
	return result, nil
}

func (s *testCaseService) Status(ctx context.Context, sessionID string) (*RunStatus, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", brain.ErrValidation)
	}

	state, pending, err := s.pipeline.State(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading run state: %w", err)
	}
	return &RunStatus{State: state, Pending: pending}, nil
}
