// Package qwen configures the OpenAI-compatible client for Alibaba DashScope.
package qwen

import (
	"net/http"

	"snapcal/pkg/openai"
)

// Config holds Qwen client configuration
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Qwen client. DashScope speaks the OpenAI chat completions
// protocol, including image_url content parts for the -vl models.
func New(cfg Config) (openai.IOpenAI, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return openai.New(openai.Config{
		Name:       "qwen",
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
}
