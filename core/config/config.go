package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"basegraph.app/tracecase/core/db"
)

type Config struct {
	OTel      OTelConfig
	LLM       LLMConfig
	Retrieval RetrievalConfig
	Runs      RunsConfig
	GitLab    GitLabConfig
	Env       string
	Port      string
	NodeID    int64
	DB        db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
	SampleRatio    float64
}

type LLMConfig struct {
	Provider    string // "openai" or "gemini"
	APIKey      string
	BaseURL     string // Optional: for OpenAI-compatible gateways
	Model       string
	MaxTokens   int
	Temperature *float64 // nil leaves the provider default in place
}

// Retrieval backends.
const (
	RetrievalNone      = "none"
	RetrievalTypesense = "typesense"
	RetrievalRAG       = "rag"
)

type RetrievalConfig struct {
	Backend        string
	URL            string
	APIKey         string
	Collection     string // Typesense collection holding regulatory documents
	QueryBy        string // Comma-separated Typesense fields to search
	IDField        string
	TextField      string
	TopK           int
	QueryExpansion bool
	Timeout        time.Duration
}

// Run store backends.
const (
	RunStoreMemory = "memory"
	RunStoreRedis  = "redis"
)

type RunsConfig struct {
	Store     string
	RedisURL  string
	KeyPrefix string
}

type GitLabConfig struct {
	BaseURL string
	Token   string
	Project string // Numeric id or "group/project" path
	Labels  []string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeCLI    ServiceType = "cli"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.cli for the interactive CLI
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("TRACECASE_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:    getEnv("TRACECASE_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		NodeID: int64(getEnvInt("NODE_ID", 0)),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "tracecase"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			SampleRatio:    getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Model:       getEnv("LLM_MODEL", ""),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 8192),
			Temperature: getEnvFloatPtr("LLM_TEMPERATURE"),
		},
		Retrieval: RetrievalConfig{
			Backend:        getEnv("RETRIEVAL_BACKEND", RetrievalNone),
			URL:            getEnv("RETRIEVAL_URL", ""),
			APIKey:         getEnv("RETRIEVAL_API_KEY", ""),
			Collection:     getEnv("RETRIEVAL_COLLECTION", "regulations"),
			QueryBy:        getEnv("RETRIEVAL_QUERY_BY", "text"),
			IDField:        getEnv("RETRIEVAL_ID_FIELD", "source_uri"),
			TextField:      getEnv("RETRIEVAL_TEXT_FIELD", "text"),
			TopK:           getEnvInt("RETRIEVAL_TOP_K", 3),
			QueryExpansion: getEnvBool("RETRIEVAL_QUERY_EXPANSION", false),
			Timeout:        getEnvDuration("RETRIEVAL_TIMEOUT", 30*time.Second),
		},
		Runs: RunsConfig{
			Store:     getEnv("RUN_STORE", RunStoreMemory),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix: getEnv("RUN_KEY_PREFIX", "tracecase:run:"),
		},
		GitLab: GitLabConfig{
			BaseURL: getEnv("GITLAB_BASE_URL", "https://gitlab.com"),
			Token:   getEnv("GITLAB_TOKEN", ""),
			Project: getEnv("GITLAB_PROJECT", ""),
			Labels:  splitList(getEnv("GITLAB_LABELS", "test-case")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements that defaults cannot satisfy.
func (c Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}

	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", c.LLM.Provider)
	}

	switch c.Retrieval.Backend {
	case RetrievalNone:
	case RetrievalTypesense, RetrievalRAG:
		if c.Retrieval.URL == "" {
			return fmt.Errorf("RETRIEVAL_URL is required for the %s backend", c.Retrieval.Backend)
		}
	default:
		return fmt.Errorf("unsupported RETRIEVAL_BACKEND: %s", c.Retrieval.Backend)
	}

	switch c.Runs.Store {
	case RunStoreMemory, RunStoreRedis:
	default:
		return fmt.Errorf("unsupported RUN_STORE: %s", c.Runs.Store)
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c RetrievalConfig) Enabled() bool {
	return c.Backend != RetrievalNone && c.URL != ""
}

func (c GitLabConfig) Enabled() bool {
	return c.Token != "" && c.Project != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvFloatPtr(key string) *float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return &f
		}
	}
	return nil
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
