package model

import "time"

// LLMEval records one generation call for offline review of prompt quality.
type LLMEval struct {
	ID               int64     `json:"id"`
	SessionID        *string   `json:"session_id,omitempty"`
	RunID            *string   `json:"run_id,omitempty"`
	Stage            Stage     `json:"stage"`
	InputText        string    `json:"input_text"`
	OutputText       string    `json:"output_text"`
	Model            string    `json:"model"`
	Temperature      *float64  `json:"temperature,omitempty"`
	PromptVersion    *string   `json:"prompt_version,omitempty"`
	LatencyMs        *int      `json:"latency_ms,omitempty"`
	PromptTokens     *int      `json:"prompt_tokens,omitempty"`
	CompletionTokens *int      `json:"completion_tokens,omitempty"`
	CallError        *string   `json:"call_error,omitempty"`
	ParseError       *string   `json:"parse_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type LLMEvalStats struct {
	Stage         Stage    `json:"stage"`
	Total         int64    `json:"total"`
	CallFailures  int64    `json:"call_failures"`
	ParseFailures int64    `json:"parse_failures"`
	AvgLatencyMs  *float64 `json:"avg_latency_ms,omitempty"`
}
