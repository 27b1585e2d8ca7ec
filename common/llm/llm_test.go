package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/common/llm"
)

type questions struct {
	Questions []string `json:"questions"`
}

var _ = Describe("Decode", func() {
	It("decodes a matching reply", func() {
		got, err := llm.Decode[questions](` {"questions":["a","b"]} `)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Questions).To(Equal([]string{"a", "b"}))
	})

	DescribeTable("rejects instead of coercing",
		func(content string) {
			_, err := llm.Decode[questions](content)
			Expect(err).To(MatchError(llm.ErrMalformedResponse))
		},
		Entry("empty", ""),
		Entry("whitespace", "  \n"),
		Entry("null", "null"),
		Entry("prose", "Sure! Here are some questions"),
		Entry("unknown field", `{"questions":[],"extra":1}`),
		Entry("wrong type", `{"questions":"a"}`),
		Entry("wrong root", `["a"]`),
		Entry("trailing value", `{"questions":[]}{"questions":[]}`),
		Entry("trailing garbage", `{"questions":[]} trailing`),
	)
})

var _ = Describe("GenerateSchema", func() {
	It("produces a strict inline object schema", func() {
		raw, err := json.Marshal(llm.GenerateSchema[questions]())
		Expect(err).NotTo(HaveOccurred())

		var schema map[string]any
		Expect(json.Unmarshal(raw, &schema)).To(Succeed())
		Expect(schema).To(HaveKeyWithValue("type", "object"))
		Expect(schema).To(HaveKeyWithValue("additionalProperties", false))
		Expect(schema).NotTo(HaveKey("$ref"))
		Expect(schema["required"]).To(ConsistOf("questions"))
	})
})

var _ = Describe("New", func() {
	It("requires an API key", func() {
		_, err := llm.New(context.Background(), llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := llm.New(context.Background(), llm.Config{Provider: "anthropic", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported")))
	})

	It("defaults to OpenAI", func() {
		c, err := llm.New(context.Background(), llm.Config{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o-mini"))
	})
})

var _ = Describe("OpenAI client", func() {
	var (
		server   *httptest.Server
		body     map[string]any
		calls    int
		status   int
		response string
	)

	BeforeEach(func() {
		body = nil
		calls = 0
		status = http.StatusOK
		response = `{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"questions\":[]}"}}],
			"usage": {"prompt_tokens": 11, "completion_tokens": 5, "total_tokens": 16}
		}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			calls++
			Expect(r.URL.Path).To(Equal("/chat/completions"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer sk-test"))

			raw, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(raw, &body)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))
		DeferCleanup(server.Close)
	})

	newClient := func() llm.Client {
		c, err := llm.New(context.Background(), llm.Config{
			Provider: llm.ProviderOpenAI,
			APIKey:   "sk-test",
			BaseURL:  server.URL,
			Model:    "gpt-4o-mini",
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("sends a strict json_schema request and returns the raw content", func() {
		resp, err := newClient().Generate(context.Background(), llm.Request{
			SystemPrompt: "system",
			UserPrompt:   "user",
			SchemaName:   "clarification_response",
			Schema:       llm.GenerateSchema[questions](),
			Temperature:  llm.Temp(0),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).To(Equal(`{"questions":[]}`))
		Expect(resp.PromptTokens).To(Equal(11))
		Expect(resp.CompletionTokens).To(Equal(5))

		Expect(body).To(HaveKeyWithValue("model", "gpt-4o-mini"))
		Expect(body).To(HaveKeyWithValue("temperature", BeNumerically("==", 0)))
		Expect(body).To(HaveKey("max_completion_tokens"))
		Expect(body["messages"]).To(HaveLen(2))

		format := body["response_format"].(map[string]any)
		Expect(format).To(HaveKeyWithValue("type", "json_schema"))
		schema := format["json_schema"].(map[string]any)
		Expect(schema).To(HaveKeyWithValue("name", "clarification_response"))
		Expect(schema).To(HaveKeyWithValue("strict", true))
	})

	It("omits the response format for free-text requests", func() {
		_, err := newClient().Generate(context.Background(), llm.Request{UserPrompt: "snippet please"})
		Expect(err).NotTo(HaveOccurred())
		Expect(body).NotTo(HaveKey("response_format"))
		Expect(body["messages"]).To(HaveLen(1))
	})

	It("makes a single attempt on server errors", func() {
		status = http.StatusInternalServerError
		response = `{"error": {"message": "overloaded", "type": "server_error"}}`

		_, err := newClient().Generate(context.Background(), llm.Request{UserPrompt: "x"})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("fails on a reply without choices", func() {
		response = `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`

		_, err := newClient().Generate(context.Background(), llm.Request{UserPrompt: "x"})
		Expect(err).To(MatchError(llm.ErrEmptyResponse))
	})
})

var _ = Describe("Gemini client", func() {
	var (
		server *httptest.Server
		path   string
		body   map[string]any
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			path = r.URL.Path
			raw, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(raw, &body)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"questions\":[\"Q1\"]}"}]}}],
				"usageMetadata": {"promptTokenCount": 8, "candidatesTokenCount": 3}
			}`))
		}))
		DeferCleanup(server.Close)
	})

	It("requests JSON constrained by the schema", func() {
		c, err := llm.New(context.Background(), llm.Config{
			Provider: llm.ProviderGemini,
			APIKey:   "g-test",
			BaseURL:  server.URL,
			Model:    "gemini-2.5-flash",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gemini-2.5-flash"))

		resp, err := c.Generate(context.Background(), llm.Request{
			SystemPrompt: "system",
			UserPrompt:   "user",
			SchemaName:   "clarification_response",
			Schema:       llm.GenerateSchema[questions](),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).To(Equal(`{"questions":["Q1"]}`))
		Expect(resp.PromptTokens).To(Equal(8))
		Expect(resp.CompletionTokens).To(Equal(3))

		Expect(strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent")).To(BeTrue())
		config := body["generationConfig"].(map[string]any)
		Expect(config).To(HaveKeyWithValue("responseMimeType", "application/json"))
		Expect(config).To(HaveKey("responseJsonSchema"))
		Expect(body).To(HaveKey("systemInstruction"))
	})
})
