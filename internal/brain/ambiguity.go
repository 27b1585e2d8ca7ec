package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/tracecase/common/llm"
	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/store"
)

const clarificationPromptVersion = "v1"

// AmbiguityDetector asks the generation service which questions would remove
// ambiguity from a requirement before test cases are written.
type AmbiguityDetector struct {
	llm   llm.Client
	evals *store.EvalRecorder
}

func NewAmbiguityDetector(client llm.Client, evals *store.EvalRecorder) *AmbiguityDetector {
	return &AmbiguityDetector{llm: client, evals: evals}
}

// Detect makes exactly one generation call. A transport failure is returned;
// an unparsable reply degrades to no questions, since clarification is optional.
func (d *AmbiguityDetector) Detect(ctx context.Context, input model.RequirementInput) ([]string, error) {
	sc := logger.StartSpan(ctx, "brain.detect_ambiguities")
	defer sc.End()
	ctx = sc.Context()

	req := llm.Request{
		SystemPrompt: clarificationSystemPrompt,
		UserPrompt:   d.buildPrompt(input),
		SchemaName:   "clarification_response",
		Schema:       clarificationSchema,
		Temperature:  llm.Temp(0.2),
	}

	start := time.Now()
	resp, err := d.llm.Generate(ctx, req)
	latency := time.Since(start)
	if err != nil {
		sc.RecordError(err)
		d.evals.Record(ctx, evalEntry(model.StageClarification, d.llm, req, clarificationPromptVersion, nil, latency, err, nil))
		return nil, fmt.Errorf("ambiguity detection: %w", err)
	}

	parsed, parseErr := llm.Decode[ClarificationResponse](resp.Content)
	d.evals.Record(ctx, evalEntry(model.StageClarification, d.llm, req, clarificationPromptVersion, resp, latency, nil, parseErr))
	if parseErr != nil {
		slog.WarnContext(ctx, "clarification reply unparsable, continuing without questions",
			"error", parseErr,
			"output", logger.Truncate(resp.Content, 500))
		return []string{}, nil
	}

	questions := make([]string, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	slog.InfoContext(ctx, "ambiguities detected",
		"question_count", len(questions),
		"latency_ms", latency.Milliseconds())

	return questions, nil
}

func (d *AmbiguityDetector) buildPrompt(input model.RequirementInput) string {
	var sb strings.Builder

	sb.WriteString("## User Requirements\n")
	sb.WriteString(input.Text)
	sb.WriteString("\n\n")

	if input.HasContract() {
		sb.WriteString("## API Contract\n")
		sb.WriteString(input.APIContract)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

const clarificationSystemPrompt = `You are an expert QA engineer reviewing software requirements before any test cases are written.

Find ambiguities, missing details and edge cases whose answers would change what gets tested. Use the API contract, when one is given, to spot undefined constraints, error responses and field rules.

## Output

Return 3-5 concise questions for the requirement author. Each question must be answerable in one or two sentences.

If the requirement is already unambiguous, return an empty list. Do not ask questions just to fill the list.

## Example

Requirement: "Users log in with email and password."
Questions:
- What should happen after three failed login attempts?
- Is there a "Forgot password" flow?
- What are the password complexity rules?`
