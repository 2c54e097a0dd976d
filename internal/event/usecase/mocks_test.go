package usecase

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"snapcal/pkg/gcalendar"
	"snapcal/pkg/llmprovider"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func writeImage(t *testing.T, name string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// calls records stage order across the mocks.
type calls []string

type mockVision struct {
	log   *calls
	reply string
	err   error
	got   *llmprovider.Request
}

func (m *mockVision) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	*m.log = append(*m.log, "extract")
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{
		Content:      llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: m.reply}}},
		ProviderName: "mock",
		ModelName:    "mock-vision",
	}, nil
}

type mockCredentials struct {
	log   *calls
	creds gcalendar.Credentials
	err   error
}

func (m *mockCredentials) Get(ctx context.Context) (gcalendar.Credentials, error) {
	*m.log = append(*m.log, "credentials")
	return m.creds, m.err
}

type mockCalendar struct {
	log   *calls
	event *gcalendar.Event
	err   error
	got   gcalendar.CreateEventRequest
	creds gcalendar.Credentials
}

func (m *mockCalendar) CreateEvent(ctx context.Context, creds gcalendar.Credentials, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	*m.log = append(*m.log, "create")
	m.got = req
	m.creds = creds
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	debug []string
	warn  []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any) {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {
	m.debug = append(m.debug, template)
}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any) {
	m.warn = append(m.warn, template)
}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
