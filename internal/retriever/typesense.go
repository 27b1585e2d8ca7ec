package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/internal/model"
)

type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
	QueryBy    string // Comma-separated fields to search
	IDField    string // Document field used as the evidence identifier
	TextField  string // Document field used as the snippet text
	TopK       int
	Timeout    time.Duration
}

type typesenseRetriever struct {
	client *typesense.Client
	cfg    TypesenseConfig
}

// NewTypesense searches a Typesense collection of regulatory passages.
func NewTypesense(cfg TypesenseConfig) Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.QueryBy == "" {
		cfg.QueryBy = "text"
	}
	if cfg.IDField == "" {
		cfg.IDField = "source_uri"
	}
	if cfg.TextField == "" {
		cfg.TextField = "text"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(cfg.Timeout),
		typesense.WithNumRetries(0),
	)

	return &typesenseRetriever{client: client, cfg: cfg}
}

func (r *typesenseRetriever) Retrieve(ctx context.Context, requirementText string) model.Evidence {
	sc := logger.StartSpan(ctx, "retriever.typesense")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	res, err := r.client.Collection(r.cfg.Collection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(requirementText),
		QueryBy: pointer.String(r.cfg.QueryBy),
		PerPage: pointer.Int(r.cfg.TopK),
	})
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "typesense search failed, continuing without evidence",
			"collection", r.cfg.Collection,
			"error", err)
		return model.Evidence{}
	}

	evidence := r.toEvidence(res)

	slog.InfoContext(ctx, "evidence retrieved",
		"backend", "typesense",
		"snippet_count", len(evidence),
		"duration_ms", time.Since(start).Milliseconds())

	return evidence
}

// toEvidence keeps hit order. Scores are text_match values scaled against the
// best hit, so the top result scores 1.
func (r *typesenseRetriever) toEvidence(res *api.SearchResult) model.Evidence {
	if res == nil || res.Hits == nil {
		return model.Evidence{}
	}
	hits := *res.Hits

	var best int64
	for _, h := range hits {
		if h.TextMatch != nil && *h.TextMatch > best {
			best = *h.TextMatch
		}
	}

	evidence := make(model.Evidence, 0, len(hits))
	for _, h := range hits {
		if h.Document == nil {
			continue
		}
		doc := *h.Document

		var score float64
		if h.TextMatch != nil && best > 0 {
			score = float64(*h.TextMatch) / float64(best)
		}

		evidence = append(evidence, model.EvidenceSnippet{
			RelevanceScore: score,
			SourceID:       stringField(doc, r.cfg.IDField),
			Text:           stringField(doc, r.cfg.TextField),
		})
	}
	return evidence
}

func stringField(doc map[string]interface{}, field string) string {
	switch v := doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
