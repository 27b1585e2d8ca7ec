package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"basegraph.app/tracecase/common/llm"
	"basegraph.app/tracecase/core/config"
	"basegraph.app/tracecase/core/db"
	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/retriever"
	"basegraph.app/tracecase/internal/service/issue_tracker"
	"basegraph.app/tracecase/internal/store"
)

// Infra carries the connections owned by the caller. Both fields are
// optional: DB enables eval logging, Redis backs the redis run store.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

type Services struct {
	testCases TestCaseService
	assist    AssistService
	exports   ExportService
	evals     EvalService
	health    HealthService
}

// NewServices wires the pipeline from already-built parts. The result has
// eval review disabled and no health checks; see WithEvals and WithHealthChecks.
func NewServices(pipeline Pipeline, assistant Assistant, tracker issue_tracker.IssueTrackerService) *Services {
	return &Services{
		testCases: NewTestCaseService(pipeline),
		assist:    NewAssistService(assistant),
		exports:   NewExportService(tracker),
		evals:     NewEvalService(nil),
		health:    NewHealthService(),
	}
}

func (s *Services) WithEvals(evals store.LLMEvalStore) *Services {
	s.evals = NewEvalService(evals)
	return s
}

func (s *Services) WithHealthChecks(checks ...HealthCheck) *Services {
	s.health = NewHealthService(checks...)
	return s
}

// Build constructs every dependency named by cfg: generation client,
// retrieval backend, run store, eval recorder and issue tracker.
func Build(ctx context.Context, cfg config.Config, infra Infra) (*Services, error) {
	client, err := llm.New(ctx, llm.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	var (
		evalStore store.LLMEvalStore
		evals     *store.EvalRecorder
		checks    []HealthCheck
	)
	if infra.DB != nil {
		evalStore = store.NewLLMEvalStore(infra.DB.Querier())
		evals = store.NewEvalRecorder(evalStore)
		checks = append(checks, HealthCheck{Name: "postgres", Ping: infra.DB.Ping})
	}
	if infra.Redis != nil {
		checks = append(checks, HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return infra.Redis.Ping(ctx).Err()
		}})
	}

	runs, err := newRunStore(cfg.Runs, infra.Redis)
	if err != nil {
		return nil, err
	}

	var r retriever.Retriever
	r, err = retriever.New(cfg.Retrieval)
	if err != nil {
		return nil, fmt.Errorf("creating retriever: %w", err)
	}
	if cfg.Retrieval.QueryExpansion && cfg.Retrieval.Enabled() {
		r = brain.NewQueryExpander(r, client, evals)
	}

	var tracker issue_tracker.IssueTrackerService
	if cfg.GitLab.Enabled() {
		tracker, err = issue_tracker.NewGitLabIssueTrackerService(cfg.GitLab)
		if err != nil {
			return nil, fmt.Errorf("creating issue tracker: %w", err)
		}
	}

	orchestrator := brain.NewOrchestrator(
		brain.NewAmbiguityDetector(client, evals),
		r,
		brain.NewTestCaseGenerator(client, evals),
		runs,
	)

	slog.InfoContext(ctx, "services configured",
		"llm_provider", cfg.LLM.Provider,
		"llm_model", client.Model(),
		"retrieval", cfg.Retrieval.Backend,
		"query_expansion", cfg.Retrieval.QueryExpansion,
		"run_store", cfg.Runs.Store,
		"eval_logging", evals != nil,
		"gitlab_export", tracker != nil)

	services := NewServices(orchestrator, brain.NewAssistant(client, evals), tracker).
		WithHealthChecks(checks...)
	if evalStore != nil {
		services.WithEvals(evalStore)
	}
	return services, nil
}

func newRunStore(cfg config.RunsConfig, client *redis.Client) (store.RunStore, error) {
	switch cfg.Store {
	case "", config.RunStoreMemory:
		return store.NewMemoryRunStore(), nil
	case config.RunStoreRedis:
		if client == nil {
			return nil, errors.New("redis run store selected but no redis client provided")
		}
		return store.NewRedisRunStore(client, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported run store: %s", cfg.Store)
	}
}

func (s *Services) TestCases() TestCaseService {
	return s.testCases
}

func (s *Services) Assist() AssistService {
	return s.assist
}

func (s *Services) Exports() ExportService {
	return s.exports
}

func (s *Services) Evals() EvalService {
	return s.evals
}

func (s *Services) Health() HealthService {
	return s.health
}
