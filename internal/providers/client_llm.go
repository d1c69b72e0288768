package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// llmProvider identifies which wire format a concrete LLM client speaks.
type llmProvider string

const (
	llmProviderClaude   llmProvider = "claude"
	llmProviderOpenAI   llmProvider = "openai"
	llmProviderDeepSeek llmProvider = "deepseek"
)

// HTTPLLMClient is a concrete C1 LLM client, grounded in the teacher's
// internal/ai/llm/client.go Claude/OpenAI/DeepSeek dispatch. Analyze sends
// the structured aggregation-refinement prompt C5 builds and parses the
// model's free-text reply for the four sections spec.md §4.1 requires.
type HTTPLLMClient struct {
	id         string
	provider   llmProvider
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClaudeLLMClient(apiKey, model string) *HTTPLLMClient {
	return &HTTPLLMClient{
		id: "claude", provider: llmProviderClaude,
		baseURL: "https://api.anthropic.com/v1/messages", apiKey: apiKey, model: model,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
}

func NewOpenAILLMClient(apiKey, model string) *HTTPLLMClient {
	return &HTTPLLMClient{
		id: "openai", provider: llmProviderOpenAI,
		baseURL: "https://api.openai.com/v1/chat/completions", apiKey: apiKey, model: model,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
}

func NewDeepSeekLLMClient(apiKey, model string) *HTTPLLMClient {
	return &HTTPLLMClient{
		id: "deepseek", provider: llmProviderDeepSeek,
		baseURL: "https://api.deepseek.com/v1/chat/completions", apiKey: apiKey, model: model,
		httpClient: &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *HTTPLLMClient) ID() string { return c.id }

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []llmMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openAIRequest struct {
	Model    string       `json:"model"`
	Messages []llmMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message llmMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const refinementSystemPrompt = `You are a quantitative trading analyst. Given a bot tally, market regime, ` +
	`sentiment, and on-chain context, respond with four sections exactly labeled ` +
	`"CONFIDENCE:", "REASONING:", "ACTION_PLAN:", "RISK:" where CONFIDENCE is a ` +
	`single number between 0 and 1.`

// Analyze implements spec.md §4.5 step 8: send the aggregation prompt,
// parse the labeled reply into an LLMRefinement. Any transport, auth, or
// rate-limit failure is classified, never panicked.
func (c *HTTPLLMClient) Analyze(prompt string) Outcome[LLMRefinement] {
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	var text string
	var out Outcome[LLMRefinement]

	switch c.provider {
	case llmProviderClaude:
		text, out = c.callClaude(ctx, prompt)
	default:
		text, out = c.callOpenAICompatible(ctx, prompt)
	}
	if out.Kind != "" {
		return out
	}

	refinement, err := parseRefinement(text)
	if err != nil {
		return Transient[LLMRefinement](fmt.Sprintf("unparseable reply: %v", err))
	}
	return OK(refinement)
}

func (c *HTTPLLMClient) callClaude(ctx context.Context, prompt string) (string, Outcome[LLMRefinement]) {
	req := claudeRequest{
		Model:     c.model,
		MaxTokens: 512,
		System:    refinementSystemPrompt,
		Messages:  []llmMessage{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", Permanent[LLMRefinement](fmt.Sprintf("marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", Permanent[LLMRefinement](fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, classified := c.send(httpReq)
	if classified.Kind != "" {
		return "", classified
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(resp, &claudeResp); err != nil {
		return "", Transient[LLMRefinement](fmt.Sprintf("decode response: %v", err))
	}
	if claudeResp.Error != nil {
		return "", Permanent[LLMRefinement](claudeResp.Error.Message)
	}
	if len(claudeResp.Content) == 0 {
		return "", Transient[LLMRefinement]("empty response")
	}
	return claudeResp.Content[0].Text, Outcome[LLMRefinement]{}
}

func (c *HTTPLLMClient) callOpenAICompatible(ctx context.Context, prompt string) (string, Outcome[LLMRefinement]) {
	req := openAIRequest{
		Model: c.model,
		Messages: []llmMessage{
			{Role: "system", Content: refinementSystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", Permanent[LLMRefinement](fmt.Sprintf("marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", Permanent[LLMRefinement](fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, classified := c.send(httpReq)
	if classified.Kind != "" {
		return "", classified
	}

	var oaResp openAIResponse
	if err := json.Unmarshal(resp, &oaResp); err != nil {
		return "", Transient[LLMRefinement](fmt.Sprintf("decode response: %v", err))
	}
	if oaResp.Error != nil {
		return "", Permanent[LLMRefinement](oaResp.Error.Message)
	}
	if len(oaResp.Choices) == 0 {
		return "", Transient[LLMRefinement]("empty response")
	}
	return oaResp.Choices[0].Message.Content, Outcome[LLMRefinement]{}
}

func (c *HTTPLLMClient) send(req *http.Request) ([]byte, Outcome[LLMRefinement]) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, Transient[LLMRefinement]("deadline exceeded")
		}
		return nil, Transient[LLMRefinement](fmt.Sprintf("transport error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, RateLimited[LLMRefinement](nil)
	}
	if resp.StatusCode >= 500 {
		return nil, Transient[LLMRefinement](fmt.Sprintf("server error: %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, Permanent[LLMRefinement](fmt.Sprintf("client error: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient[LLMRefinement](fmt.Sprintf("read body: %v", err))
	}
	return body, Outcome[LLMRefinement]{}
}

// parseRefinement extracts the four labeled sections from a free-text LLM
// reply. The model is instructed to always emit them, but a malformed
// reply must classify as a retryable failure, not a panic.
func parseRefinement(text string) (LLMRefinement, error) {
	sections := map[string]string{}
	var current string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		matched := false
		for _, label := range []string{"CONFIDENCE:", "REASONING:", "ACTION_PLAN:", "RISK:"} {
			if strings.HasPrefix(trimmed, label) {
				current = label
				sections[current] = strings.TrimSpace(strings.TrimPrefix(trimmed, label))
				matched = true
				break
			}
		}
		if !matched && current != "" {
			sections[current] += " " + trimmed
		}
	}

	confidenceStr, ok := sections["CONFIDENCE:"]
	if !ok {
		return LLMRefinement{}, fmt.Errorf("missing CONFIDENCE section")
	}
	var confidence float64
	if _, err := fmt.Sscanf(confidenceStr, "%f", &confidence); err != nil {
		return LLMRefinement{}, fmt.Errorf("unparseable confidence %q: %w", confidenceStr, err)
	}

	return LLMRefinement{
		RefinedConfidence: confidence,
		Reasoning:         sections["REASONING:"],
		ActionPlan:        sections["ACTION_PLAN:"],
		RiskAssessment:    sections["RISK:"],
		MarketContext:     sections["MARKET_CONTEXT:"],
	}, nil
}
