package gcalendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// tokenServer fakes the OAuth token endpoint.
type tokenServer struct {
	*httptest.Server
	mu       sync.Mutex
	forms    []map[string]string
	reject   bool
	accessTo string
}

func newTokenServer(t *testing.T) *tokenServer {
	t.Helper()
	ts := &tokenServer{accessTo: "fresh-access"}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		ts.mu.Lock()
		ts.forms = append(ts.forms, form)
		reject := ts.reject
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": ts.accessTo,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) setReject(v bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.reject = v
}

func (ts *tokenServer) calls() []map[string]string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]map[string]string(nil), ts.forms...)
}

// writeClientSecret writes an installed-app client secret whose token_uri points at tokenURL.
func writeClientSecret(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	secret := map[string]any{
		"installed": map[string]any{
			"client_id":     "test-client-id.apps.googleusercontent.com",
			"project_id":    "test-project",
			"auth_uri":      "https://accounts.google.com/o/oauth2/auth",
			"token_uri":     tokenURL,
			"client_secret": "test-secret",
			"redirect_uris": []string{"http://localhost"},
		},
	}
	data, _ := json.Marshal(secret)
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write client secret: %v", err)
	}
	return path
}
