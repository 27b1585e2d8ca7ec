package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	// ErrEmptyResponse is returned when the provider answered without any content.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMalformedResponse wraps every decode failure in Decode.
	ErrMalformedResponse = errors.New("malformed response")
)

// Config holds LLM client configuration.
type Config struct {
	Provider    string   // "openai" or "gemini"
	APIKey      string   // Required: API key for the provider
	BaseURL     string   // Optional: custom API endpoint (OpenAI-compatible gateways, test servers)
	Model       string   // Model name (e.g., "gpt-4o-mini", "gemini-2.5-flash")
	MaxTokens   int      // Default completion budget when a request leaves it unset
	Temperature *float64 // Default temperature when a request leaves it unset
}

// Client is the generation service: one prompt in, raw reply text out.
// Replies are never decoded here; callers run Decode against the schema they asked for.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any // nil = free-form text reply
	MaxTokens    int
	Temperature  *float64 // nil = client default, explicit 0 = deterministic
}

type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// New creates a Client for cfg.Provider. Defaults to OpenAI when no provider is set.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	case ProviderGemini:
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// GenerateSchema reflects a strict JSON schema (no additional properties, no $ref) from T.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Decode parses a raw reply into T. It rejects rather than coerces: unknown
// fields, trailing data, null and empty replies are all errors wrapping
// ErrMalformedResponse.
func Decode[T any](content string) (T, error) {
	var result T

	trimmed := strings.TrimSpace(content)
	if trimmed == "" || trimmed == "null" {
		return result, fmt.Errorf("%w: no JSON value", ErrMalformedResponse)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return result, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedResponse)
	}

	return result, nil
}

func Temp(t float64) *float64 {
	return &t
}

func resolveTemperature(req, fallback *float64) *float64 {
	if req != nil {
		return req
	}
	return fallback
}

func resolveMaxTokens(req, fallback, hardDefault int) int {
	switch {
	case req > 0:
		return req
	case fallback > 0:
		return fallback
	default:
		return hardDefault
	}
}
