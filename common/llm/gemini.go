package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

type geminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature *float64
}

func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &geminiClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(resolveMaxTokens(req.MaxTokens, c.maxTokens, 8192)),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = req.Schema
	}
	if temp := resolveTemperature(req.Temperature, c.temperature); temp != nil {
		t := float32(*temp)
		config.Temperature = &t
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	latency := time.Since(start)

	var promptTokens, completionTokens int
	if resp.UsageMetadata != nil {
		promptTokens = int(resp.UsageMetadata.PromptTokenCount)
		completionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	slog.DebugContext(ctx, "llm generate completed",
		"provider", ProviderGemini,
		"model", c.model,
		"schema", req.SchemaName,
		"duration_ms", latency.Milliseconds(),
		"prompt_tokens", promptTokens,
		"completion_tokens", completionTokens)

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini generate: no candidates in response: %w", ErrEmptyResponse)
	}

	return &Response{
		Content:          resp.Text(),
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Latency:          latency,
	}, nil
}

func (c *geminiClient) Model() string {
	return c.model
}
