package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"snapcal/pkg/openai"
)

func TestNew(t *testing.T) {
	if _, err := openai.New(openai.Config{}); err == nil {
		t.Fatalf("expected error without API key")
	}

	client, err := openai.New(openai.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != openai.DefaultModel {
		t.Errorf("expected default model %s, got %s", openai.DefaultModel, client.Model())
	}
}

func TestClient_GenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
			return
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		messages := req["messages"].([]any)
		user := messages[len(messages)-1].(map[string]any)

		// Text-only messages are sent as a plain string.
		if text, ok := user["content"].(string); ok {
			if text == "cause_429" {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`rate limited`))
				return
			}
			w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "echo: ` + text + `"}}]}`))
			return
		}

		parts := user["content"].([]any)
		first := parts[0].(map[string]any)
		second := parts[1].(map[string]any)
		if first["type"] != "text" || second["type"] != "image_url" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		url := second["image_url"].(map[string]any)["url"].(string)
		if !strings.HasPrefix(url, "data:image/png;base64,") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req["model"] != "gpt-4o" || req["max_tokens"].(float64) != 1000 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{\"summary\": \"Team Sync\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 900, "completion_tokens": 20, "total_tokens": 920}
		}`))
	}))
	defer ts.Close()

	client, err := openai.New(openai.Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Vision request", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Content{{
				Role: "user",
				Parts: []openai.Part{
					{Text: "extract the event"},
					{ImageURL: "data:image/png;base64,AAAA"},
				},
			}},
			MaxTokens: 1000,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Content.Parts[0].Text != `{"summary": "Team Sync"}` {
			t.Errorf("unexpected reply: %s", resp.Content.Parts[0].Text)
		}
		if resp.Usage.TotalTokens != 920 {
			t.Errorf("expected usage to be mapped, got %+v", resp.Usage)
		}
	})

	t.Run("Text request", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Content{{Parts: []openai.Part{{Text: "hi"}}}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Content.Parts[0].Text != "echo: hi" {
			t.Errorf("unexpected reply: %s", resp.Content.Parts[0].Text)
		}
	})

	t.Run("Plain error body", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Content{{Parts: []openai.Part{{Text: "cause_429"}}}},
		})
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Fatalf("expected 429 error, got %v", err)
		}
	})

	t.Run("Structured error body", func(t *testing.T) {
		bad, _ := openai.New(openai.Config{APIKey: "wrong", BaseURL: ts.URL})
		_, err := bad.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Content{{Parts: []openai.Part{{Text: "hi"}}}},
		})
		if err == nil || !strings.Contains(err.Error(), "Incorrect API key") {
			t.Fatalf("expected auth error message, got %v", err)
		}
	})
}
