package brain

import (
	"time"

	"basegraph.app/tracecase/common/llm"
	"basegraph.app/tracecase/internal/model"
)

// evalEntry builds the eval row for one generation call. callErr is the
// provider failure, in which case resp is nil; parseErr is a rejected reply.
func evalEntry(stage model.Stage, client llm.Client, req llm.Request, promptVersion string, resp *llm.Response, latency time.Duration, callErr, parseErr error) *model.LLMEval {
	eval := &model.LLMEval{
		Stage:         stage,
		InputText:     req.UserPrompt,
		Model:         client.Model(),
		Temperature:   req.Temperature,
		PromptVersion: ptr(promptVersion),
		LatencyMs:     ptr(int(latency.Milliseconds())),
	}

	if resp != nil {
		eval.OutputText = resp.Content
		eval.PromptTokens = ptr(resp.PromptTokens)
		eval.CompletionTokens = ptr(resp.CompletionTokens)
	}
	if callErr != nil {
		eval.CallError = ptr(callErr.Error())
	}
	if parseErr != nil {
		eval.ParseError = ptr(parseErr.Error())
	}

	return eval
}

func ptr[T any](v T) *T { return &v }
