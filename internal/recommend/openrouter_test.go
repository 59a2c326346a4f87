package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenRouterClientReady(t *testing.T) {
	if NewOpenRouterClient(OpenRouterConfig{APIKey: ""}).Ready() {
		t.Fatal("client without API key must not be ready")
	}
	if !NewOpenRouterClient(OpenRouterConfig{APIKey: "sk-test"}).Ready() {
		t.Fatal("client with API key must be ready")
	}
}

func TestOpenRouterClientRank(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[{\"name\":\"Healthy Bites\"}]"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:   "sk-test",
		Model:    "qwen/qwen3-30b-a3b:free",
		Endpoint: server.URL,
	})

	content, err := client.Rank(context.Background(), "I want food", 6.5244, 3.3792, []Candidate{
		{ID: "1", Name: "Healthy Bites", Categories: []string{"Restaurant"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != `[{"name":"Healthy Bites"}]` {
		t.Fatalf("unexpected content: %q", content)
	}

	if captured.Model != "qwen/qwen3-30b-a3b:free" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, `User query: "I want food"`) {
		t.Fatalf("user prompt missing query: %q", captured.Messages[1].Content)
	}
	if !strings.Contains(captured.Messages[1].Content, "Healthy Bites") {
		t.Fatalf("user prompt missing candidates: %q", captured.Messages[1].Content)
	}
}

func TestOpenRouterClientRankUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "sk-test", Endpoint: server.URL})
	if _, err := client.Rank(context.Background(), "food", 1, 1, nil); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
