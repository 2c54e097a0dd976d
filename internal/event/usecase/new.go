package usecase

import (
	"context"
	"time"

	"snapcal/internal/event"
	"snapcal/pkg/datemath"
	"snapcal/pkg/gcalendar"
	"snapcal/pkg/llmprovider"
	pkgLog "snapcal/pkg/log"
)

// Vision answers a multimodal prompt.
type Vision interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// CredentialSource returns credentials usable for one calendar write.
type CredentialSource interface {
	Get(ctx context.Context) (gcalendar.Credentials, error)
}

// CalendarWriter inserts one event.
type CalendarWriter interface {
	CreateEvent(ctx context.Context, creds gcalendar.Credentials, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// Config tunes the extraction request.
type Config struct {
	DefaultTimezone string
	MaxTokens       int
	Temperature     float64

	// IncludeDateContext appends today's date to the prompt.
	IncludeDateContext bool
}

type implUseCase struct {
	l        pkgLog.Logger
	vision   Vision
	creds    CredentialSource
	calendar CalendarWriter
	dateMath *datemath.Parser
	cfg      Config
	now      func() time.Time
}

// New creates a new event UseCase instance.
func New(
	l pkgLog.Logger,
	vision Vision,
	creds CredentialSource,
	calendar CalendarWriter,
	dateMath *datemath.Parser,
	cfg Config,
) event.UseCase {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = defaultTimezone
	}
	return &implUseCase{
		l:        l,
		vision:   vision,
		creds:    creds,
		calendar: calendar,
		dateMath: dateMath,
		cfg:      cfg,
		now:      time.Now,
	}
}
