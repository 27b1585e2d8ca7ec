package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/tracecase/common/id"
	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/retriever"
	"basegraph.app/tracecase/internal/store"
)

// Detector returns clarification questions for a requirement.
type Detector interface {
	Detect(ctx context.Context, input model.RequirementInput) ([]string, error)
}

// Generator produces validated test cases from a requirement and its context.
type Generator interface {
	Generate(ctx context.Context, in GenerationInput) (*model.GenerationResult, error)
}

// Outcome is what Invoke hands back: either a finished Result, or a Pending
// handle carrying the questions that must be answered (or skipped) via Resume.
type Outcome struct {
	RunID   string
	Result  *model.GenerationResult
	Pending *model.PendingRun
}

// Orchestrator sequences detection, retrieval, generation and traceability
// backfill, and owns the per-session run lifecycle.
type Orchestrator struct {
	detector  Detector
	retriever retriever.Retriever
	generator Generator
	runs      store.RunStore
}

func NewOrchestrator(detector Detector, r retriever.Retriever, generator Generator, runs store.RunStore) *Orchestrator {
	return &Orchestrator{
		detector:  detector,
		retriever: r,
		generator: generator,
		runs:      runs,
	}
}

// Invoke starts a run for sessionID. A blank requirement fails before any
// network call. When the detector finds nothing to clarify the run goes
// straight to generation; otherwise it parks and Outcome.Pending is set.
func (o *Orchestrator) Invoke(ctx context.Context, sessionID string, input model.RequirementInput) (*Outcome, error) {
	if input.Blank() {
		return nil, ErrBlankRequirement
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	run := &model.PipelineRun{
		ID:        id.NewString(),
		SessionID: sessionID,
		State:     model.RunStateClarifying,
		Input:     input,
		CreatedAt: time.Now().UTC(),
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &run.SessionID,
		RunID:     &run.ID,
		Component: "tracecase.brain.orchestrator",
	})

	if err := o.runs.Claim(ctx, run); err != nil {
		if errors.Is(err, store.ErrRunExists) {
			slog.InfoContext(ctx, "invoke rejected, session already has a run")
			return nil, ErrRunInProgress
		}
		return nil, fmt.Errorf("claiming session: %w", err)
	}

	slog.InfoContext(ctx, "run started",
		"requirement_length", len(input.Text),
		"has_contract", input.HasContract())

	questions, err := o.detector.Detect(logger.WithLogFields(ctx, logger.LogFields{
		Stage: ptr(string(model.StageClarification)),
	}), input)
	if err != nil {
		o.release(ctx, run)
		slog.ErrorContext(ctx, "run failed", "stage", model.StageClarification, "error", err)
		return nil, newStageError(model.StageClarification, err)
	}

	if len(questions) == 0 {
		next := *run
		next.State = model.RunStateGenerating
		if err := o.runs.Transition(ctx, &next, model.RunStateClarifying); err != nil {
			o.release(ctx, run)
			return nil, fmt.Errorf("starting generation: %w", err)
		}

		result, err := o.generate(ctx, &next, "")
		if err != nil {
			return nil, err
		}
		return &Outcome{RunID: run.ID, Result: result}, nil
	}

	parked := *run
	parked.State = model.RunStateAwaitingClarification
	parked.Questions = questions
	if err := o.runs.Transition(ctx, &parked, model.RunStateClarifying); err != nil {
		o.release(ctx, run)
		return nil, fmt.Errorf("parking run: %w", err)
	}

	slog.InfoContext(ctx, "run awaiting clarification", "question_count", len(questions))

	return &Outcome{RunID: run.ID, Pending: parked.Pending()}, nil
}

// Resume continues a parked run with the caller's answers, or with no
// transcript at all when reply.Skip is set.
func (o *Orchestrator) Resume(ctx context.Context, handle model.PendingRun, reply model.ClarificationReply) (*model.GenerationResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &handle.SessionID,
		RunID:     &handle.RunID,
		Component: "tracecase.brain.orchestrator",
	})

	run, err := o.runs.Get(ctx, handle.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("loading run: %w", err)
	}
	if run.ID != handle.RunID {
		return nil, ErrRunNotFound
	}

	next := *run
	next.State = model.RunStateGenerating
	if err := o.runs.Transition(ctx, &next, model.RunStateAwaitingClarification); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrRunNotFound
		case errors.Is(err, store.ErrStateConflict):
			return nil, ErrRunInProgress
		}
		return nil, fmt.Errorf("resuming run: %w", err)
	}

	transcript := ""
	if !reply.Skip {
		transcript = RenderTranscript(BuildTranscript(run.Questions, reply.Answers))
	}

	slog.InfoContext(ctx, "run resumed",
		"skipped", reply.Skip,
		"question_count", len(run.Questions),
		"answer_count", len(reply.Answers))

	return o.generate(ctx, &next, transcript)
}

// State reports the session's current run state, with the pending handle
// when the run is waiting for clarification.
func (o *Orchestrator) State(ctx context.Context, sessionID string) (model.RunState, *model.PendingRun, error) {
	run, err := o.runs.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return model.RunStateIdle, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("loading run: %w", err)
	}

	if run.State == model.RunStateAwaitingClarification {
		return run.State, run.Pending(), nil
	}
	return run.State, nil, nil
}

// generate runs retrieval, generation and backfill, then releases the session
// whatever the outcome. It runs detached from caller cancellation: once
// generation starts it completes or fails on its own.
func (o *Orchestrator) generate(ctx context.Context, run *model.PipelineRun, transcript string) (*model.GenerationResult, error) {
	ctx = context.WithoutCancel(ctx)
	defer o.release(ctx, run)

	sc := logger.StartSpan(ctx, "brain.run_generation")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		Stage: ptr(string(model.StageGeneration)),
	})

	start := time.Now()
	evidence := o.retriever.Retrieve(ctx, run.Input.Text)

	result, err := o.generator.Generate(ctx, GenerationInput{
		Requirement: run.Input,
		Transcript:  transcript,
		Evidence:    evidence,
	})
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "run failed", "stage", model.StageGeneration, "error", err)
		return nil, newStageError(model.StageGeneration, err)
	}

	result.TestCases = BackfillTraceability(result.TestCases, evidence.Identifiers())

	summary := result.Summary()
	slog.InfoContext(ctx, "run succeeded",
		"test_case_count", summary.Total,
		"positive", summary.Positive,
		"negative", summary.Negative,
		"neutral", summary.Neutral,
		"feature_gap_count", len(result.FeatureGaps),
		"evidence_count", len(evidence),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

func (o *Orchestrator) release(ctx context.Context, run *model.PipelineRun) {
	if err := o.runs.Release(context.WithoutCancel(ctx), run.SessionID, run.ID); err != nil {
		slog.ErrorContext(ctx, "failed to release run", "error", err)
	}
}
