package dto

import (
	"time"

	"basegraph.app/tracecase/internal/model"
)

// EvalListQuery selects evals by run, or by stage when run_id is absent.
type EvalListQuery struct {
	RunID string `form:"run_id"`
	Stage string `form:"stage"`
	Limit int32  `form:"limit" binding:"omitempty,min=1,max=200"`
}

type EvalStatsQuery struct {
	Stage string    `form:"stage" binding:"required"`
	Since time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
}

type EvalListResponse struct {
	Evals []model.LLMEval `json:"evals"`
	Count int             `json:"count"`
}

func ToEvalListResponse(evals []model.LLMEval) EvalListResponse {
	if evals == nil {
		evals = []model.LLMEval{}
	}
	return EvalListResponse{Evals: evals, Count: len(evals)}
}
