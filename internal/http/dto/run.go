package dto

import (
	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service"
)

// Run statuses reported to clients.
const (
	RunStatusCompleted             = "completed"
	RunStatusAwaitingClarification = "awaiting_clarification"
)

type GenerateRequest struct {
	Requirement string `json:"requirement" binding:"max=100000"`
	APIContract string `json:"api_contract,omitempty" binding:"max=200000"`
}

func (r GenerateRequest) ToInput() model.RequirementInput {
	return model.RequirementInput{Text: r.Requirement, APIContract: r.APIContract}
}

type ResumeRequest struct {
	Answers []string `json:"answers"`
	Skip    bool     `json:"skip"`
}

func (r ResumeRequest) ToReply() model.ClarificationReply {
	return model.ClarificationReply{Answers: r.Answers, Skip: r.Skip}
}

type GenerationResponse struct {
	TestCases   []model.TestCase      `json:"test_cases"`
	FeatureGaps []string              `json:"feature_gaps"`
	Summary     model.EdgeCaseSummary `json:"summary"`
}

func ToGenerationResponse(r *model.GenerationResult) *GenerationResponse {
	resp := &GenerationResponse{
		TestCases:   r.TestCases,
		FeatureGaps: r.FeatureGaps,
		Summary:     r.Summary(),
	}
	if resp.TestCases == nil {
		resp.TestCases = []model.TestCase{}
	}
	if resp.FeatureGaps == nil {
		resp.FeatureGaps = []string{}
	}
	return resp
}

type RunResponse struct {
	RunID     string              `json:"run_id"`
	Status    string              `json:"status"`
	Questions []string            `json:"questions,omitempty"`
	Result    *GenerationResponse `json:"result,omitempty"`
}

func ToRunResponse(o *brain.Outcome) *RunResponse {
	if o.Pending != nil {
		return &RunResponse{
			RunID:     o.RunID,
			Status:    RunStatusAwaitingClarification,
			Questions: o.Pending.Questions,
		}
	}
	return &RunResponse{
		RunID:  o.RunID,
		Status: RunStatusCompleted,
		Result: ToGenerationResponse(o.Result),
	}
}

func ToResumeResponse(runID string, r *model.GenerationResult) *RunResponse {
	return &RunResponse{
		RunID:  runID,
		Status: RunStatusCompleted,
		Result: ToGenerationResponse(r),
	}
}

type RunStateResponse struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	RunID     string   `json:"run_id,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

func ToRunStateResponse(sessionID string, s *service.RunStatus) *RunStateResponse {
	resp := &RunStateResponse{
		SessionID: sessionID,
		State:     string(s.State),
	}
	if s.Pending != nil {
		resp.RunID = s.Pending.RunID
		resp.Questions = s.Pending.Questions
	}
	return resp
}
