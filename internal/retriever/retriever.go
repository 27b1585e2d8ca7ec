package retriever

import (
	"context"
	"fmt"
	"net/http"

	"basegraph.app/tracecase/core/config"
	"basegraph.app/tracecase/internal/model"
)

// DefaultTopK is the number of snippets requested when no limit is configured.
const DefaultTopK = 3

// Retriever finds regulatory evidence for a requirement. Retrieval is advisory:
// implementations never fail, they degrade to empty evidence and log a warning.
type Retriever interface {
	Retrieve(ctx context.Context, requirementText string) model.Evidence
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.RetrievalConfig) (Retriever, error) {
	switch cfg.Backend {
	case "", config.RetrievalNone:
		return None{}, nil
	case config.RetrievalTypesense:
		return NewTypesense(TypesenseConfig{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey,
			Collection: cfg.Collection,
			QueryBy:    cfg.QueryBy,
			IDField:    cfg.IDField,
			TextField:  cfg.TextField,
			TopK:       cfg.TopK,
			Timeout:    cfg.Timeout,
		}), nil
	case config.RetrievalRAG:
		return NewRAG(cfg.URL, cfg.TopK, &http.Client{Timeout: cfg.Timeout}), nil
	default:
		return nil, fmt.Errorf("unsupported retrieval backend: %s", cfg.Backend)
	}
}

// None is the backend used when no retrieval service is configured.
type None struct{}

func (None) Retrieve(context.Context, string) model.Evidence {
	return model.Evidence{}
}
