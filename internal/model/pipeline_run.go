package model

import "time"

type RunState string

// RunStateClarifying covers the single ambiguity-detection call made by Invoke
// before the run either parks or proceeds to generation.
const (
	RunStateIdle                  RunState = "idle"
	RunStateClarifying            RunState = "clarifying"
	RunStateAwaitingClarification RunState = "awaiting_clarification"
	RunStateGenerating            RunState = "generating"
)

// Stage names a pipeline step. Clarification and generation are the two
// stages a run can fail in; the rest label eval records and spans.
type Stage string

const (
	StageClarification  Stage = "clarification"
	StageQueryExpansion Stage = "query_expansion"
	StageGeneration     Stage = "generation"
	StageAssertions     Stage = "assertions"
	StageSnippet        Stage = "snippet"
)

func (s Stage) Valid() bool {
	switch s {
	case StageClarification, StageQueryExpansion, StageGeneration, StageAssertions, StageSnippet:
		return true
	}
	return false
}

// PipelineRun is the in-flight state of one session's run. It exists only
// while the run is claimed and is deleted once a result or error is delivered.
type PipelineRun struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	State     RunState         `json:"state"`
	Input     RequirementInput `json:"input"`
	Questions []string         `json:"questions,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// PendingRun is the handle returned when a run parks for clarification.
type PendingRun struct {
	RunID     string   `json:"run_id"`
	SessionID string   `json:"session_id"`
	Questions []string `json:"questions"`
}

func (r *PipelineRun) Pending() *PendingRun {
	return &PendingRun{
		RunID:     r.ID,
		SessionID: r.SessionID,
		Questions: cloneStrings(r.Questions),
	}
}

// ClarificationReply answers a PendingRun. Answers[i] answers Questions[i];
// missing or blank entries mean "no answer". Skip discards all answers.
type ClarificationReply struct {
	Answers []string `json:"answers"`
	Skip    bool     `json:"skip"`
}
