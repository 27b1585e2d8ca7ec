package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
)

type ragRequest struct {
	Requirement string `json:"requirement"`
}

type ragSnippet struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	SourceURI string  `json:"source_uri"`
}

type ragRetriever struct {
	baseURL string
	topK    int
	http    *http.Client
}

// NewRAG talks to a retrieval micro-service exposing POST {baseURL}/rag with
// {"requirement": text}, answering [{text, score, source_uri}] in rank order.
func NewRAG(baseURL string, topK int, client *http.Client) Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ragRetriever{
		baseURL: strings.TrimRight(baseURL, "/"),
		topK:    topK,
		http:    client,
	}
}

func (r *ragRetriever) Retrieve(ctx context.Context, requirementText string) model.Evidence {
	sc := logger.StartSpan(ctx, "retriever.rag")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	snippets, err := r.search(ctx, requirementText)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "rag retrieval failed, continuing without evidence",
			"url", r.baseURL,
			"error", err)
		return model.Evidence{}
	}

	if len(snippets) > r.topK {
		snippets = snippets[:r.topK]
	}

	evidence := make(model.Evidence, 0, len(snippets))
	for _, s := range snippets {
		evidence = append(evidence, model.EvidenceSnippet{
			RelevanceScore: s.Score,
			SourceID:       s.SourceURI,
			Text:           s.Text,
		})
	}

	slog.InfoContext(ctx, "evidence retrieved",
		"backend", "rag",
		"snippet_count", len(evidence),
		"duration_ms", time.Since(start).Milliseconds())

	return evidence
}

func (r *ragRetriever) search(ctx context.Context, text string) ([]ragSnippet, error) {
	body, err := json.Marshal(ragRequest{Requirement: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rag", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var snippets []ragSnippet
	if err := json.NewDecoder(resp.Body).Decode(&snippets); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return snippets, nil
}
