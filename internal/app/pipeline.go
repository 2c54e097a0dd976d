package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"snapcal/config"
	"snapcal/internal/event"
	"snapcal/internal/event/usecase"
	"snapcal/pkg/datemath"
	"snapcal/pkg/gcalendar"
	"snapcal/pkg/llmprovider"
	"snapcal/pkg/log"
)

// Pipeline is the wired event use case plus the collaborators entrypoints also need.
type Pipeline struct {
	UseCase     event.UseCase
	Credentials *gcalendar.CredentialManager
	Vision      *llmprovider.Manager
	Location    *time.Location
}

// NewLogger builds the zap logger from config.
func NewLogger(cfg config.LoggerConfig) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Level,
		Mode:         cfg.Mode,
		Encoding:     cfg.Encoding,
		ColorEnabled: cfg.ColorEnabled,
	})
}

// ConsentFor maps the configured consent mode to a Consent. out receives the authorization URL.
func ConsentFor(mode string, in io.Reader, out io.Writer) gcalendar.Consent {
	switch mode {
	case config.ConsentLoopback:
		return gcalendar.LoopbackConsent{Out: out, Timeout: 5 * time.Minute}
	case config.ConsentPrompt:
		return gcalendar.PromptConsent{In: in, Out: out}
	default:
		return gcalendar.NoConsent{}
	}
}

// NewCredentialManager wires the token store and consent flow from config.
func NewCredentialManager(l log.Logger, cfg config.GoogleCalendarConfig, consent gcalendar.Consent) (*gcalendar.CredentialManager, error) {
	return gcalendar.NewCredentialManager(l, gcalendar.CredentialConfig{
		ClientSecretPath: cfg.CredentialsPath,
		TokenPath:        cfg.TokenPath,
		Consent:          consent,
	})
}

// NewPipeline wires vision providers, credentials and the calendar client into the event use case.
func NewPipeline(ctx context.Context, l log.Logger, cfg *config.Config, consent gcalendar.Consent) (*Pipeline, error) {
	// 1. Vision providers
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm providers: %w", err)
	}
	var totalTimeout time.Duration
	if cfg.LLM.MaxTotalTimeout != "" {
		if totalTimeout, err = time.ParseDuration(cfg.LLM.MaxTotalTimeout); err != nil {
			return nil, fmt.Errorf("llm.max_total_timeout: %w", err)
		}
	}
	vision := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		MaxTotalTimeout: totalTimeout,
	}, l)
	for _, p := range providers {
		l.Infof(ctx, "Vision provider enabled: %s (%s)", p.Name(), p.Model())
	}

	// 2. Date parsing in the default zone
	dateMath, err := datemath.NewParser(cfg.Extraction.DefaultTimezone)
	if err != nil {
		l.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Extraction.DefaultTimezone, err)
		dateMath, _ = datemath.NewParser("UTC")
	}

	// 3. Google Calendar
	creds, err := NewCredentialManager(l, cfg.GoogleCalendar, consent)
	if err != nil {
		return nil, fmt.Errorf("google calendar credentials: %w", err)
	}
	calendarClient := gcalendar.NewClient(cfg.GoogleCalendar.CalendarID, nil)

	// 4. Use case
	uc := usecase.New(l, vision, creds, calendarClient, dateMath, usecase.Config{
		DefaultTimezone: cfg.Extraction.DefaultTimezone,
		MaxTokens:       cfg.Extraction.MaxTokens,
		Temperature:     cfg.Extraction.Temperature,

		IncludeDateContext: cfg.Extraction.IncludeDateContext,
	})

	return &Pipeline{
		UseCase:     uc,
		Credentials: creds,
		Vision:      vision,
		Location:    dateMath.Location(),
	}, nil
}
