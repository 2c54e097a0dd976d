package llmprovider

import (
	"context"

	"snapcal/pkg/gemini"
	"snapcal/pkg/openai"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		Messages:    make([]gemini.Content, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		sys := toGeminiContent(*req.SystemInstruction)
		geminiReq.SystemInstruction = &sys
	}
	for i, msg := range req.Messages {
		geminiReq.Messages[i] = toGeminiContent(msg)
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		return nil, err
	}

	content := Message{Role: resp.Content.Role}
	for _, p := range resp.Content.Parts {
		content.Parts = append(content.Parts, Part{Text: p.Text})
	}

	return &Response{
		Content:      content,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage:        geminiUsage(resp.Usage),
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

func toGeminiContent(msg Message) gemini.Content {
	out := gemini.Content{Role: msg.Role, Parts: make([]gemini.Part, len(msg.Parts))}
	for i, p := range msg.Parts {
		out.Parts[i] = gemini.Part{Text: p.Text}
		if p.Image != nil {
			out.Parts[i].InlineData = &gemini.InlineData{MimeType: p.Image.MIMEType, Data: p.Image.Data}
		}
	}
	return out
}

// OpenAIAdapter adapts an OpenAI-compatible client (OpenAI, Qwen) to the Provider interface
type OpenAIAdapter struct {
	name   string
	client openai.IOpenAI
}

// NewOpenAIAdapter creates a new adapter; name is reported as the provider name
func NewOpenAIAdapter(name string, client openai.IOpenAI) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	oaReq := &openai.Request{
		Messages:    make([]openai.Content, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		sys := toOpenAIContent(*req.SystemInstruction)
		oaReq.SystemInstruction = &sys
	}
	for i, msg := range req.Messages {
		oaReq.Messages[i] = toOpenAIContent(msg)
	}

	resp, err := a.client.GenerateContent(ctx, oaReq)
	if err != nil {
		return nil, err
	}

	content := Message{Role: resp.Content.Role}
	for _, p := range resp.Content.Parts {
		content.Parts = append(content.Parts, Part{Text: p.Text})
	}

	return &Response{
		Content:      content,
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage:        openAIUsage(resp.Usage),
	}, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.client.Model()
}

func toOpenAIContent(msg Message) openai.Content {
	out := openai.Content{Role: msg.Role, Parts: make([]openai.Part, len(msg.Parts))}
	for i, p := range msg.Parts {
		out.Parts[i] = openai.Part{Text: p.Text}
		if p.Image != nil {
			out.Parts[i].ImageURL = p.Image.DataURI()
		}
	}
	return out
}

func geminiUsage(u *gemini.Usage) *Usage {
	if u == nil {
		return &Usage{}
	}
	return &Usage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
}

func openAIUsage(u *openai.Usage) *Usage {
	if u == nil {
		return &Usage{}
	}
	return &Usage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
}
