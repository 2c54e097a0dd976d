package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"snapcal/internal/middleware"
	"snapcal/pkg/log"
)

type stubEventHandler struct {
	deadline bool
}

func (s *stubEventHandler) ProcessImage(c *gin.Context) {
	_, s.deadline = c.Request.Context().Deadline()
	c.Status(http.StatusOK)
}
func (s *stubEventHandler) ProcessImageLegacy(c *gin.Context) { c.Status(http.StatusOK) }
func (s *stubEventHandler) Extract(c *gin.Context)            { c.Status(http.StatusOK) }

type stubTelegramHandler struct{ called bool }

func (s *stubTelegramHandler) HandleWebhook(c *gin.Context) {
	s.called = true
	c.Status(http.StatusOK)
}
func (s *stubTelegramHandler) Wait() {}

func newTestServer(t *testing.T, mutate func(*Config)) *HTTPServer {
	t.Helper()
	cfg := Config{
		Logger:         log.NewNop(),
		Port:           8000,
		Mode:           gin.TestMode,
		RequestTimeout: time.Minute,
		Middleware:     middleware.New(log.NewNop(), middleware.Config{CORSOrigins: []string{"http://localhost:3000"}}),
		EventHandler:   &stubEventHandler{},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(log.NewNop(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func do(srv *HTTPServer, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestNew_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Missing mode", func(c *Config) { c.Mode = "" }},
		{"Missing port", func(c *Config) { c.Port = 0 }},
		{"Missing event handler", func(c *Config) { c.EventHandler = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Port: 8000, Mode: gin.TestMode, EventHandler: &stubEventHandler{}}
			tt.mutate(&cfg)
			if _, err := New(log.NewNop(), cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if _, err := New(nil, Config{Port: 8000, Mode: gin.TestMode, EventHandler: &stubEventHandler{}}); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/live"} {
		t.Run(path, func(t *testing.T) {
			w := do(srv, http.MethodGet, path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body struct {
				Data map[string]string `json:"data"`
			}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body.Data["service"] != ServiceName {
				t.Errorf("unexpected body: %s", w.Body.String())
			}
		})
	}

	t.Run("/api/health", func(t *testing.T) {
		w := do(srv, http.MethodGet, "/api/health", nil)
		if w.Code != http.StatusOK || w.Body.String() != `{"status":"healthy"}` {
			t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("Trace header", func(t *testing.T) {
		w := do(srv, http.MethodGet, "/health", nil)
		if w.Header().Get(middleware.HeaderRequestID) == "" {
			t.Error("expected request id header")
		}
	})
}

func TestReadyCheck_NotReady(t *testing.T) {
	srv := newTestServer(t, func(c *Config) {
		c.ReadyCheck = func(context.Context) error { return errors.New("no calendar token") }
	})

	w := do(srv, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestDomainRoutes(t *testing.T) {
	eh := &stubEventHandler{}
	th := &stubTelegramHandler{}
	srv := newTestServer(t, func(c *Config) {
		c.EventHandler = eh
		c.TelegramHandler = th
	})

	for _, path := range []string{"/api/v1/events/process-image", "/api/v1/events/extract", "/api/process-image", "/webhook/telegram"} {
		if w := do(srv, http.MethodPost, path, nil); w.Code != http.StatusOK {
			t.Errorf("POST %s: expected 200, got %d", path, w.Code)
		}
	}
	if !eh.deadline {
		t.Error("expected the request context to carry the request timeout")
	}
	if !th.called {
		t.Error("expected telegram webhook to be routed")
	}
}

func TestDomainRoutes_NoTelegram(t *testing.T) {
	srv := newTestServer(t, nil)
	if w := do(srv, http.MethodPost, "/webhook/telegram", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without telegram handler, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(srv, http.MethodOptions, "/api/process-image", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": http.MethodPost,
	})
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected allowed origin echoed, got headers %v", w.Header())
	}
}

func TestRun_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	srv := newTestServer(t, func(c *Config) {
		c.Port = port
		c.ShutdownTimeout = time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/live", port)
	var up bool
	for i := 0; i < 50 && !up; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			up = resp.StatusCode == http.StatusOK
		}
		if !up {
			time.Sleep(20 * time.Millisecond)
		}
	}
	if !up {
		cancel()
		t.Fatal("server did not come up")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
