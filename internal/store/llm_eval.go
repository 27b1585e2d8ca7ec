package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"basegraph.app/tracecase/core/db"
	"basegraph.app/tracecase/internal/model"
)

const llmEvalColumns = `id, session_id, run_id, stage, input_text, output_text, model, temperature,
	prompt_version, latency_ms, prompt_tokens, completion_tokens, call_error, parse_error, created_at`

type llmEvalStore struct {
	q db.Querier
}

func NewLLMEvalStore(q db.Querier) LLMEvalStore {
	return &llmEvalStore{q: q}
}

func (s *llmEvalStore) Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO llm_evals (id, session_id, run_id, stage, input_text, output_text, model, temperature,
			prompt_version, latency_ms, prompt_tokens, completion_tokens, call_error, parse_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+llmEvalColumns,
		eval.ID, eval.SessionID, eval.RunID, string(eval.Stage), eval.InputText, eval.OutputText, eval.Model,
		eval.Temperature, eval.PromptVersion, eval.LatencyMs, eval.PromptTokens, eval.CompletionTokens, eval.CallError, eval.ParseError,
	)
	out, err := scanLLMEval(row)
	if err != nil {
		return nil, fmt.Errorf("insert llm eval: %w", err)
	}
	return out, nil
}

func (s *llmEvalStore) GetByID(ctx context.Context, id int64) (*model.LLMEval, error) {
	row := s.q.QueryRow(ctx, `SELECT `+llmEvalColumns+` FROM llm_evals WHERE id = $1`, id)
	out, err := scanLLMEval(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get llm eval: %w", err)
	}
	return out, nil
}

func (s *llmEvalStore) ListByRun(ctx context.Context, runID string) ([]model.LLMEval, error) {
	rows, err := s.q.Query(ctx, `SELECT `+llmEvalColumns+` FROM llm_evals WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list llm evals by run: %w", err)
	}
	return collectLLMEvals(rows)
}

func (s *llmEvalStore) ListByStage(ctx context.Context, stage model.Stage, limit int32) ([]model.LLMEval, error) {
	rows, err := s.q.Query(ctx, `SELECT `+llmEvalColumns+` FROM llm_evals WHERE stage = $1 ORDER BY created_at DESC LIMIT $2`, string(stage), limit)
	if err != nil {
		return nil, fmt.Errorf("list llm evals by stage: %w", err)
	}
	return collectLLMEvals(rows)
}

func (s *llmEvalStore) GetStats(ctx context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error) {
	stats := &model.LLMEvalStats{Stage: stage}
	err := s.q.QueryRow(ctx, `
		SELECT count(*), count(call_error), count(parse_error), avg(latency_ms)::float8
		FROM llm_evals
		WHERE stage = $1 AND created_at >= $2`,
		string(stage), since,
	).Scan(&stats.Total, &stats.CallFailures, &stats.ParseFailures, &stats.AvgLatencyMs)
	if err != nil {
		return nil, fmt.Errorf("llm eval stats: %w", err)
	}
	return stats, nil
}

func scanLLMEval(row pgx.Row) (*model.LLMEval, error) {
	var e model.LLMEval
	var stage string
	err := row.Scan(&e.ID, &e.SessionID, &e.RunID, &stage, &e.InputText, &e.OutputText, &e.Model, &e.Temperature,
		&e.PromptVersion, &e.LatencyMs, &e.PromptTokens, &e.CompletionTokens, &e.CallError, &e.ParseError, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Stage = model.Stage(stage)
	return &e, nil
}

func collectLLMEvals(rows pgx.Rows) ([]model.LLMEval, error) {
	defer rows.Close()

	var out []model.LLMEval
	for rows.Next() {
		e, err := scanLLMEval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan llm eval: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
