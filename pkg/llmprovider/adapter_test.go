package llmprovider

import (
	"context"
	"testing"

	"snapcal/pkg/gemini"
	"snapcal/pkg/openai"
)

type fakeGemini struct {
	got *gemini.Request
}

func (f *fakeGemini) GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error) {
	f.got = req
	return &gemini.Response{
		Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: "{}"}}},
	}, nil
}

func (f *fakeGemini) Model() string { return "gemini-test" }

type fakeOpenAI struct {
	got *openai.Request
}

func (f *fakeOpenAI) GenerateContent(ctx context.Context, req *openai.Request) (*openai.Response, error) {
	f.got = req
	return &openai.Response{
		Content: openai.Content{Role: "assistant", Parts: []openai.Part{{Text: "{}"}}},
		Usage:   &openai.Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3},
	}, nil
}

func (f *fakeOpenAI) Model() string { return "gpt-test" }

func TestGeminiAdapter_InlinesImage(t *testing.T) {
	fake := &fakeGemini{}
	adapter := NewGeminiAdapter(fake)

	resp, err := adapter.GenerateContent(context.Background(), userRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := fake.got.Messages[0].Parts
	if parts[0].Text != "Extract the event" {
		t.Errorf("text part not forwarded: %+v", parts[0])
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/png" || parts[1].InlineData.Data != "AAAA" {
		t.Errorf("image part not forwarded as inline data: %+v", parts[1])
	}
	if fake.got.MaxTokens != 1000 {
		t.Errorf("max tokens not forwarded")
	}
	if resp.ProviderName != "gemini" || resp.ModelName != "gemini-test" {
		t.Errorf("unexpected provider identity: %s/%s", resp.ProviderName, resp.ModelName)
	}
	if resp.Usage == nil {
		t.Errorf("usage must never be nil")
	}
}

func TestOpenAIAdapter_SendsDataURI(t *testing.T) {
	fake := &fakeOpenAI{}
	adapter := NewOpenAIAdapter("openai", fake)

	resp, err := adapter.GenerateContent(context.Background(), userRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	part := fake.got.Messages[0].Parts[1]
	if part.ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("expected data URI, got %q", part.ImageURL)
	}
	if resp.Text() != "{}" || resp.Usage.TotalTokens != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if adapter.Name() != "openai" || adapter.Model() != "gpt-test" {
		t.Errorf("unexpected identity")
	}
}
