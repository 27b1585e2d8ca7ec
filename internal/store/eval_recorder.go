package store

import (
	"context"
	"log/slog"

	"basegraph.app/tracecase/common/id"
	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
)

// EvalRecorder writes LLMEval rows on a best-effort basis. A nil recorder or a
// recorder without a store does nothing; write failures are logged, never returned.
type EvalRecorder struct {
	store LLMEvalStore
}

func NewEvalRecorder(s LLMEvalStore) *EvalRecorder {
	return &EvalRecorder{store: s}
}

// Record assigns an ID, copies session and run ids from the context log fields
// when unset, and persists eval.
func (r *EvalRecorder) Record(ctx context.Context, eval *model.LLMEval) {
	if r == nil || r.store == nil || eval == nil {
		return
	}

	if eval.ID == 0 {
		eval.ID = id.New()
	}
	fields := logger.GetLogFields(ctx)
	if eval.SessionID == nil {
		eval.SessionID = fields.SessionID
	}
	if eval.RunID == nil {
		eval.RunID = fields.RunID
	}

	if _, err := r.store.Create(ctx, eval); err != nil {
		slog.ErrorContext(ctx, "failed to log eval", "error", err, "stage", eval.Stage)
	}
}
