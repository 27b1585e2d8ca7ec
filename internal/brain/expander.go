package brain

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"basegraph.app/tracecase/common/llm"
	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/retriever"
	"basegraph.app/tracecase/internal/store"
)

const queryExpansionPromptVersion = "v1"

// QueryExpander asks the generation service for regulatory search queries and
// appends them to the requirement before the wrapped retriever searches.
// Any failure falls back to searching with the requirement alone.
type QueryExpander struct {
	inner retriever.Retriever
	llm   llm.Client
	evals *store.EvalRecorder
}

func NewQueryExpander(inner retriever.Retriever, client llm.Client, evals *store.EvalRecorder) *QueryExpander {
	return &QueryExpander{inner: inner, llm: client, evals: evals}
}

func (e *QueryExpander) Retrieve(ctx context.Context, requirementText string) model.Evidence {
	return e.inner.Retrieve(ctx, e.Expand(ctx, requirementText))
}

// Expand returns requirementText followed by a newline and the suggested
// queries joined with "; ", or requirementText unchanged when expansion fails
// or yields nothing.
func (e *QueryExpander) Expand(ctx context.Context, requirementText string) string {
	sc := logger.StartSpan(ctx, "brain.expand_query")
	defer sc.End()
	ctx = sc.Context()

	req := llm.Request{
		SystemPrompt: queryExpansionSystemPrompt,
		UserPrompt:   "## User Requirements\n" + requirementText + "\n",
		SchemaName:   "query_expansion_response",
		Schema:       queryExpansionSchema,
		Temperature:  llm.Temp(0.2),
	}

	start := time.Now()
	resp, err := e.llm.Generate(ctx, req)
	latency := time.Since(start)
	if err != nil {
		e.evals.Record(ctx, evalEntry(model.StageQueryExpansion, e.llm, req, queryExpansionPromptVersion, nil, latency, err, nil))
		slog.WarnContext(ctx, "query expansion failed, searching with requirement only", "error", err)
		return requirementText
	}

	parsed, parseErr := llm.Decode[QueryExpansionResponse](resp.Content)
	e.evals.Record(ctx, evalEntry(model.StageQueryExpansion, e.llm, req, queryExpansionPromptVersion, resp, latency, nil, parseErr))
	if parseErr != nil {
		slog.WarnContext(ctx, "query expansion reply unparsable, searching with requirement only", "error", parseErr)
		return requirementText
	}

	queries := cleanList(parsed.Queries)
	if len(queries) == 0 {
		return requirementText
	}

	slog.DebugContext(ctx, "query expanded", "query_count", len(queries))

	return requirementText + "\n" + strings.Join(queries, "; ")
}

const queryExpansionSystemPrompt = `You help find regulations and compliance rules relevant to a software requirement.

Given the requirement, return 2-4 short search queries that would locate the applicable regulatory or compliance passages (for example data protection, payments, accessibility, audit logging).

Return an empty list when no regulation plausibly applies.`
