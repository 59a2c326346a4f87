package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const rankingSystemPrompt = "You are a helpful local discovery assistant that recommends the best nearby shops based on quality, proximity, and popularity."

// Candidate is the shop projection handed to the ranking service.
type Candidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
}

// OpenRouterConfig configures the chat-completions client.
type OpenRouterConfig struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// OpenRouterClient asks an OpenRouter-hosted model to rank candidate shops.
// 単発のチャット補完リクエストを送り、本文テキストをそのまま返す。
type OpenRouterClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

// NewOpenRouterClient builds a client. The API key may be empty; Ready then
// reports false and the pipeline fails fast without a network call.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "https://openrouter.ai/api/v1/chat/completions"
	}
	return &OpenRouterClient{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		endpoint:   endpoint,
		httpClient: client,
		logger:     cfg.Logger,
	}
}

// Ready reports whether a credential is configured.
func (c *OpenRouterClient) Ready() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Rank sends the query, location, and candidate list and returns the raw
// completion text. Callers own parsing; the model does not reliably emit
// clean JSON.
func (c *OpenRouterClient) Rank(ctx context.Context, query string, lat, lng float64, candidates []Candidate) (string, error) {
	candidateJSON, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("ランキング候補のシリアライズに失敗: %w", err)
	}

	userPrompt := fmt.Sprintf(`User query: %q
User location: lat=%v, lng=%v

Available nearby shops:
%s

Based on the user's query, recommend the top 3 most relevant shops. The user might ask in natural language (like "I want food" or "where can I eat"), so interpret their intent.

Respond with ONLY a JSON array in this exact format:
[
  { "id": "shop_id", "name": "shop name", "category": "shop category", "reason": "why this shop matches the user's needs" }
]`, query, lat, lng, candidateJSON)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: rankingSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ランキングリクエストの作成に失敗: %w", err)
	}

	timeout := c.httpClient.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ランキングリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ランキングサービスへのリクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return "", fmt.Errorf("ランキングサービスがエラーを返却: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ランキングレスポンスのデコードに失敗: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("ランキングレスポンスに choices がありません")
	}

	return parsed.Choices[0].Message.Content, nil
}
