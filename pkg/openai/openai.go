package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func newOpenAIImpl(cfg Config) *openAIImpl {
	return &openAIImpl{
		name:       cfg.Name,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

// GenerateContent sends a request to the chat completions endpoint
func (o *openAIImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(o.transformRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", o.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", o.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to send request: %w", o.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", o.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, fmt.Errorf("%s: API error %d: %s", o.name, resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("%s: API error %d: %s", o.name, resp.StatusCode, errResp.Error.Message)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%s: failed to parse response: %w", o.name, err)
	}

	return transformResponse(&result), nil
}

// Model returns the model being used
func (o *openAIImpl) Model() string {
	return o.model
}

func (o *openAIImpl) transformRequest(req *Request) chatRequest {
	out := chatRequest{
		Model:       o.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    make([]chatMessage, 0, len(req.Messages)+1),
	}

	if req.SystemInstruction != nil {
		sys := transformMessage(*req.SystemInstruction)
		sys.Role = "system"
		out.Messages = append(out.Messages, sys)
	}
	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, transformMessage(msg))
	}
	return out
}

func transformMessage(msg Content) chatMessage {
	role := msg.Role
	if role == "" {
		role = "user"
	}

	hasImage := false
	for _, p := range msg.Parts {
		if p.ImageURL != "" {
			hasImage = true
			break
		}
	}

	if !hasImage {
		text := ""
		for _, p := range msg.Parts {
			if p.Text == "" {
				continue
			}
			if text != "" {
				text += "\n"
			}
			text += p.Text
		}
		return chatMessage{Role: role, Content: text}
	}

	parts := make([]contentPart, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch {
		case p.ImageURL != "":
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: p.ImageURL}})
		case p.Text != "":
			parts = append(parts, contentPart{Type: "text", Text: p.Text})
		}
	}
	return chatMessage{Role: role, Content: parts}
}

func transformResponse(resp *chatResponse) *Response {
	usage := &Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	if len(resp.Choices) == 0 {
		return &Response{Usage: usage}
	}

	msg := resp.Choices[0].Message
	content := Content{Role: msg.Role}
	if msg.Content != "" {
		content.Parts = []Part{{Text: msg.Content}}
	}
	return &Response{Content: content, Usage: usage}
}
