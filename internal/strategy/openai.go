package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	grokBaseURL   = "https://api.x.ai/v1"

	defaultOpenAIModel = "gpt-4o"
	defaultGrokModel   = "grok-2-latest"

	requestTimeout = 90 * time.Second
)

// ChatClient talks to an OpenAI-compatible chat-completions endpoint.
type ChatClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient returns a client for the OpenAI API.
func NewOpenAIClient(apiKey string) *ChatClient {
	return &ChatClient{
		baseURL:    openAIBaseURL,
		apiKey:     apiKey,
		model:      defaultOpenAIModel,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewGrokClient returns a client for the x.ai API, which speaks the same
// chat-completions protocol.
func NewGrokClient(apiKey string) *ChatClient {
	return &ChatClient{
		baseURL:    grokBaseURL,
		apiKey:     apiKey,
		model:      defaultGrokModel,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one user message and returns the model's text reply.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing API key")
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("model API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// LLMGenerator routes strategy requests to a model backend by name.
type LLMGenerator struct {
	openai *ChatClient
	grok   *ChatClient
}

// NewLLMGenerator wires the available model clients. Either may be nil when
// the corresponding API key is not configured.
func NewLLMGenerator(openai, grok *ChatClient) *LLMGenerator {
	return &LLMGenerator{openai: openai, grok: grok}
}

// Generate builds the prompt, queries the selected model, and parses the
// decisions out of its JSON reply.
func (g *LLMGenerator) Generate(ctx context.Context, input types.StrategyInput) ([]types.TradingDecision, error) {
	client, err := g.clientFor(input.AIModel)
	if err != nil {
		return nil, err
	}

	reply, err := client.Complete(ctx, buildPrompt(input))
	if err != nil {
		return nil, fmt.Errorf("generate strategy: %w", err)
	}

	decisions, err := parseDecisions(reply)
	if err != nil {
		return nil, fmt.Errorf("parse strategy reply: %w", err)
	}
	return filterValid(decisions), nil
}

func (g *LLMGenerator) clientFor(model string) (*ChatClient, error) {
	switch strings.ToLower(model) {
	case "grokai", "grok":
		if g.grok == nil {
			return nil, errors.New("grok backend not configured")
		}
		return g.grok, nil
	case "", "chatgpt", "openai":
		if g.openai == nil {
			return nil, errors.New("openai backend not configured")
		}
		return g.openai, nil
	default:
		if g.openai == nil {
			return nil, fmt.Errorf("unknown model %q and no default backend", model)
		}
		return g.openai, nil
	}
}

// rawDecision tolerates the shape drift model output shows in practice:
// orderIds may arrive as strings or numbers.
type rawDecision struct {
	Action          string        `json:"action"`
	Leverage        float64       `json:"leverage"`
	Pay             float64       `json:"pay"`
	EntryPoint      float64       `json:"entryPoint"`
	StopLoss        float64       `json:"stopLoss"`
	TakeProfit      float64       `json:"takeProfit"`
	NewSL           float64       `json:"newSL"`
	NewTP           float64       `json:"newTP"`
	IsLong          bool          `json:"isLong"`
	RiskRewardRatio float64       `json:"riskRewardRatio"`
	OrderIDs        []interface{} `json:"orderIds"`
	Reasoning       string        `json:"reasoning"`
}

func (r rawDecision) decision() types.TradingDecision {
	d := types.TradingDecision{
		Action:          types.DecisionAction(r.Action),
		Leverage:        r.Leverage,
		Pay:             r.Pay,
		EntryPoint:      r.EntryPoint,
		StopLoss:        r.StopLoss,
		TakeProfit:      r.TakeProfit,
		NewSL:           r.NewSL,
		NewTP:           r.NewTP,
		IsLong:          r.IsLong,
		RiskRewardRatio: r.RiskRewardRatio,
		Reasoning:       r.Reasoning,
	}
	for _, id := range r.OrderIDs {
		switch v := id.(type) {
		case string:
			d.OrderIDs = append(d.OrderIDs, v)
		case float64:
			d.OrderIDs = append(d.OrderIDs, fmt.Sprintf("%.0f", v))
		}
	}
	return d
}

// parseDecisions accepts either a single decision object or an array of
// them, and also unwraps the common {"strategies": [...]} envelope.
func parseDecisions(reply string) ([]types.TradingDecision, error) {
	text := strings.TrimSpace(reply)
	if text == "" {
		return nil, errors.New("empty reply")
	}

	var list []rawDecision
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return toDecisions(list), nil
	}

	var single rawDecision
	if err := json.Unmarshal([]byte(text), &single); err == nil && single.Action != "" {
		return toDecisions([]rawDecision{single}), nil
	}

	var wrapped struct {
		Strategies []rawDecision `json:"strategies"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err == nil && len(wrapped.Strategies) > 0 {
		return toDecisions(wrapped.Strategies), nil
	}

	return nil, fmt.Errorf("unrecognized reply shape: %.120s", text)
}

func toDecisions(raw []rawDecision) []types.TradingDecision {
	decisions := make([]types.TradingDecision, 0, len(raw))
	for _, r := range raw {
		decisions = append(decisions, r.decision())
	}
	return decisions
}
