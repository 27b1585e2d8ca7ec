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

const generationPromptVersion = "v1"

// GenerationInput is everything one generation call sees. Transcript is the
// rendered clarification transcript, empty when clarification was skipped or
// never needed.
type GenerationInput struct {
	Requirement model.RequirementInput
	Transcript  string
	Evidence    model.Evidence
}

// TestCaseGenerator turns a requirement into validated test cases with one
// schema-constrained generation call.
type TestCaseGenerator struct {
	llm   llm.Client
	evals *store.EvalRecorder
}

func NewTestCaseGenerator(client llm.Client, evals *store.EvalRecorder) *TestCaseGenerator {
	return &TestCaseGenerator{llm: client, evals: evals}
}

// Generate returns the normalized result, or an error for a failed call or a
// reply that does not satisfy the schema. A partial result is never returned.
func (g *TestCaseGenerator) Generate(ctx context.Context, in GenerationInput) (*model.GenerationResult, error) {
	sc := logger.StartSpan(ctx, "brain.generate_test_cases")
	defer sc.End()
	ctx = sc.Context()

	req := llm.Request{
		SystemPrompt: generationSystemPrompt,
		UserPrompt:   g.buildPrompt(in),
		SchemaName:   "test_case_generation_response",
		Schema:       generationSchema,
		Temperature:  llm.Temp(0.3),
	}

	start := time.Now()
	resp, err := g.llm.Generate(ctx, req)
	latency := time.Since(start)
	if err != nil {
		sc.RecordError(err)
		g.evals.Record(ctx, evalEntry(model.StageGeneration, g.llm, req, generationPromptVersion, nil, latency, err, nil))
		return nil, fmt.Errorf("generating test cases: %w", err)
	}

	result, parseErr := parseGeneration(resp.Content)
	g.evals.Record(ctx, evalEntry(model.StageGeneration, g.llm, req, generationPromptVersion, resp, latency, nil, parseErr))
	if parseErr != nil {
		sc.RecordError(parseErr)
		slog.WarnContext(ctx, "generation reply rejected",
			"error", parseErr,
			"output", logger.Truncate(resp.Content, 1000))
		return nil, parseErr
	}

	slog.InfoContext(ctx, "test cases generated",
		"test_case_count", len(result.TestCases),
		"feature_gap_count", len(result.FeatureGaps),
		"evidence_count", len(in.Evidence),
		"latency_ms", latency.Milliseconds(),
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	return result, nil
}

// parseGeneration decodes, normalizes and validates a raw generation reply.
func parseGeneration(content string) (*model.GenerationResult, error) {
	parsed, err := llm.Decode[TestCaseGenerationResponse](content)
	if err != nil {
		return nil, fmt.Errorf("decoding generation reply: %w", err)
	}

	result := &model.GenerationResult{
		TestCases:   make([]model.TestCase, 0, len(parsed.TestCases)),
		FeatureGaps: cleanList(parsed.FeatureGaps),
	}

	for i, item := range parsed.TestCases {
		tc := normalizeTestCase(item)
		if err := validateTestCase(tc); err != nil {
			return nil, fmt.Errorf("test case %d: %w", i, err)
		}
		result.TestCases = append(result.TestCases, tc)
	}

	return result, nil
}

func normalizeTestCase(item TestCaseItem) model.TestCase {
	return model.TestCase{
		ID:              strings.TrimSpace(item.ID),
		Title:           strings.TrimSpace(item.Title),
		Description:     strings.TrimSpace(item.Description),
		Category:        model.Category(strings.TrimSpace(item.Category)),
		Priority:        model.Priority(strings.TrimSpace(item.Priority)),
		Status:          model.Status(strings.TrimSpace(item.Status)),
		Preconditions:   cleanList(item.Preconditions),
		Steps:           cleanList(item.Steps),
		ExpectedResults: cleanList(item.ExpectedResults),
		Traceability:    splitIdentifiers(item.Traceability),
	}
}

func validateTestCase(tc model.TestCase) error {
	switch {
	case tc.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidTestCase)
	case tc.Title == "":
		return fmt.Errorf("%w: %s: missing title", ErrInvalidTestCase, tc.ID)
	case !tc.Category.Valid():
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidTestCase, tc.ID, tc.Category)
	case !tc.Priority.Valid():
		return fmt.Errorf("%w: %s: unknown priority %q", ErrInvalidTestCase, tc.ID, tc.Priority)
	case tc.Status != model.StatusDraft:
		return fmt.Errorf("%w: %s: status must be %s, got %q", ErrInvalidTestCase, tc.ID, model.StatusDraft, tc.Status)
	case len(tc.Steps) == 0:
		return fmt.Errorf("%w: %s: no steps", ErrInvalidTestCase, tc.ID)
	case len(tc.ExpectedResults) == 0:
		return fmt.Errorf("%w: %s: no expected results", ErrInvalidTestCase, tc.ID)
	}
	return nil
}

// cleanList trims entries and drops empty ones. Never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitIdentifiers accepts both list and comma-joined forms ("A, B") of
// evidence identifiers. Identifiers are otherwise opaque.
func splitIdentifiers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (g *TestCaseGenerator) buildPrompt(in GenerationInput) string {
	var sb strings.Builder

	sb.WriteString("## User Requirements\n")
	sb.WriteString(in.Requirement.Text)
	sb.WriteString("\n\n")

	if in.Requirement.HasContract() {
		sb.WriteString("## API Contract\n")
		sb.WriteString("Use this contract for endpoints, request and response fields, and constraints.\n\n")
		sb.WriteString(in.Requirement.APIContract)
		sb.WriteString("\n\n")
	}

	if in.Transcript != "" {
		sb.WriteString("## Clarifications from the Requirement Author\n")
		sb.WriteString(in.Transcript)
		sb.WriteString("\n\n")
	}

	if ctxText := in.Evidence.ContextText(); ctxText != "" {
		sb.WriteString("## Regulatory Context\n")
		sb.WriteString(ctxText)
		sb.WriteString("\n\n")

		if ids := in.Evidence.Identifiers(); len(ids) > 0 {
			sb.WriteString("## Evidence Identifiers\n")
			for _, id := range ids {
				sb.WriteString(fmt.Sprintf("- %s\n", id))
			}
			sb.WriteString("\nFor each test case, list in traceability the identifier(s) above that the test case covers.\n\n")
		}
	}

	return sb.String()
}

const generationSystemPrompt = `You are an expert QA engineer who writes detailed, structured test cases from software requirements.

## Required fields

Every test case MUST have:
- id: unique within this response (e.g., TC-LOGIN-01)
- title: short and descriptive
- description: what the test verifies
- category: Positive, Negative or Neutral
- priority: High, Medium or Low
- status: always Draft
- preconditions: states required before the test runs (may be empty)
- steps: sequential actions, at least one
- expectedResults: specific, verifiable outcomes, at least one
- traceability: identifiers of the regulatory evidence the test covers, or an empty list when no evidence was provided

## Guidance

- Cover the happy path, invalid input, boundaries and failure handling.
- When an API contract is given, use its exact endpoints, fields and status codes.
- Treat the author's clarifications as authoritative. "No answer provided." means the question is still open.
- Use regulatory context only where it applies to the requirement.

## Feature gaps

After the test cases, list every ambiguity or missing detail that still prevents complete testing in featureGaps. Return an empty list when there are none.`
