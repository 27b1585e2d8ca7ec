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

const assistPromptVersion = "v1"

// AssertionsFallback is returned when the assertion reply cannot be parsed.
var AssertionsFallback = []string{"Could not generate suggestions."}

// Assistant offers per-test-case helpers on top of a generated result.
type Assistant struct {
	llm   llm.Client
	evals *store.EvalRecorder
}

func NewAssistant(client llm.Client, evals *store.EvalRecorder) *Assistant {
	return &Assistant{llm: client, evals: evals}
}

// SuggestAssertions returns 3-5 automatable assertions. A failed call is an
// error; an unparsable reply yields AssertionsFallback.
func (a *Assistant) SuggestAssertions(ctx context.Context, tc model.TestCase) ([]string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "tracecase.brain.assistant"})

	req := llm.Request{
		SystemPrompt: assertionsSystemPrompt,
		UserPrompt:   buildTestCasePrompt(tc, false),
		SchemaName:   "assertions_response",
		Schema:       assertionsSchema,
		Temperature:  llm.Temp(0.2),
	}

	start := time.Now()
	resp, err := a.llm.Generate(ctx, req)
	latency := time.Since(start)
	if err != nil {
		a.evals.Record(ctx, evalEntry(model.StageAssertions, a.llm, req, assistPromptVersion, nil, latency, err, nil))
		return nil, fmt.Errorf("suggesting assertions: %w", err)
	}

	parsed, parseErr := llm.Decode[AssertionsResponse](resp.Content)
	a.evals.Record(ctx, evalEntry(model.StageAssertions, a.llm, req, assistPromptVersion, resp, latency, nil, parseErr))
	if parseErr != nil {
		slog.WarnContext(ctx, "assertion reply unparsable", "test_case_id", tc.ID, "error", parseErr)
		return append([]string(nil), AssertionsFallback...), nil
	}

	assertions := cleanList(parsed.Assertions)
	if len(assertions) == 0 {
		return append([]string(nil), AssertionsFallback...), nil
	}
	return assertions, nil
}

// GenerateSnippet returns a cURL command for API tests or a Cypress/Playwright
// snippet for UI tests, as raw text.
func (a *Assistant) GenerateSnippet(ctx context.Context, tc model.TestCase) (string, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "tracecase.brain.assistant"})

	req := llm.Request{
		SystemPrompt: snippetSystemPrompt,
		UserPrompt:   buildTestCasePrompt(tc, true),
		Temperature:  llm.Temp(0.2),
	}

	start := time.Now()
	resp, err := a.llm.Generate(ctx, req)
	latency := time.Since(start)
	a.evals.Record(ctx, evalEntry(model.StageSnippet, a.llm, req, assistPromptVersion, resp, latency, err, nil))
	if err != nil {
		return "", fmt.Errorf("generating snippet: %w", err)
	}

	return stripCodeFence(resp.Content), nil
}

func buildTestCasePrompt(tc model.TestCase, withDescription bool) string {
	var sb strings.Builder

	sb.WriteString("## Test Case\n")
	sb.WriteString(tc.Title)
	sb.WriteString("\n\n")

	if withDescription && tc.Description != "" {
		sb.WriteString("## Description\n")
		sb.WriteString(tc.Description)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Steps\n")
	for i, s := range tc.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
	}
	sb.WriteString("\n## Expected Results\n")
	for _, r := range tc.ExpectedResults {
		sb.WriteString(fmt.Sprintf("- %s\n", r))
	}

	return sb.String()
}

// stripCodeFence removes a single surrounding markdown fence, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}

const assertionsSystemPrompt = `You turn manual test cases into automatable checks.

Given a test case's steps and expected results, suggest 3-5 concise, specific assertions that could be automated.

Examples:
- expect(response.status).toBe(200)
- expect(toastMessage).toBeVisible()
- expect(user.role).toEqual('admin')`

const snippetSystemPrompt = `You write test automation snippets.

If the test case exercises an API, write a cURL command. If it exercises a UI, write a Cypress or Playwright snippet.

Reply with the code only. No explanation.`
