package gcalendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/oauth2/auth",
			TokenURL: tokenURL,
		},
		Scopes: []string{EventsScope},
	}
}

// browser plays the user: it follows the auth URL straight to the redirect.
func browser(t *testing.T, query func(state string) url.Values) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
			t.Errorf("auth URL carries no PKCE challenge: %s", authURL)
		}
		if q.Get("access_type") != "offline" {
			t.Errorf("auth URL must request offline access: %s", authURL)
		}
		if q.Get("scope") != EventsScope {
			t.Errorf("unexpected scope %q", q.Get("scope"))
		}
		resp, err := http.Get(q.Get("redirect_uri") + "?" + query(q.Get("state")).Encode())
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	}
}

func TestLoopbackConsent(t *testing.T) {
	t.Run("Code is exchanged with verifier", func(t *testing.T) {
		ts := newTokenServer(t)
		var out bytes.Buffer
		consent := LoopbackConsent{
			Out:     &out,
			Timeout: 5 * time.Second,
			Open: browser(t, func(state string) url.Values {
				return url.Values{"code": {"auth-code"}, "state": {state}}
			}),
		}

		tok, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "fresh-access" {
			t.Errorf("unexpected token %q", tok.AccessToken)
		}

		calls := ts.calls()
		if len(calls) != 1 {
			t.Fatalf("expected one exchange, got %d", len(calls))
		}
		if calls[0]["code"] != "auth-code" || calls[0]["code_verifier"] == "" {
			t.Errorf("unexpected exchange form: %v", calls[0])
		}
		if !strings.HasPrefix(calls[0]["redirect_uri"], "http://127.0.0.1:") {
			t.Errorf("expected loopback redirect, got %q", calls[0]["redirect_uri"])
		}
		if !strings.Contains(out.String(), "https://accounts.example.com/o/oauth2/auth") {
			t.Errorf("auth URL not announced: %q", out.String())
		}
	})

	t.Run("Stray requests before the redirect are ignored", func(t *testing.T) {
		ts := newTokenServer(t)
		open := browser(t, func(state string) url.Values {
			return url.Values{"code": {"auth-code"}, "state": {state}}
		})
		consent := LoopbackConsent{
			Out:     &bytes.Buffer{},
			Timeout: 5 * time.Second,
			Open: func(authURL string) error {
				u, err := url.Parse(authURL)
				if err != nil {
					return err
				}
				redirect := u.Query().Get("redirect_uri")
				for _, stray := range []string{redirect + "favicon.ico", redirect, redirect + "?state=prefetch"} {
					resp, err := http.Get(stray)
					if err != nil {
						return err
					}
					resp.Body.Close()
					if resp.StatusCode != http.StatusNotFound {
						t.Errorf("GET %s: expected 404, got %d", stray, resp.StatusCode)
					}
				}
				return open(authURL)
			},
		}

		tok, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "fresh-access" {
			t.Errorf("unexpected token %q", tok.AccessToken)
		}
	})

	t.Run("State mismatch", func(t *testing.T) {
		ts := newTokenServer(t)
		consent := LoopbackConsent{
			Out:     &bytes.Buffer{},
			Timeout: 5 * time.Second,
			Open: browser(t, func(state string) url.Values {
				return url.Values{"code": {"auth-code"}, "state": {"forged"}}
			}),
		}

		_, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if !errors.Is(err, ErrConsentDeclined) {
			t.Fatalf("expected ErrConsentDeclined, got %v", err)
		}
		if len(ts.calls()) != 0 {
			t.Errorf("no exchange expected on state mismatch")
		}
	})

	t.Run("User denies access", func(t *testing.T) {
		ts := newTokenServer(t)
		consent := LoopbackConsent{
			Out:     &bytes.Buffer{},
			Timeout: 5 * time.Second,
			Open: browser(t, func(state string) url.Values {
				return url.Values{"error": {"access_denied"}, "state": {state}}
			}),
		}

		_, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if !errors.Is(err, ErrConsentDeclined) || !strings.Contains(err.Error(), "access_denied") {
			t.Fatalf("expected access_denied consent error, got %v", err)
		}
	})

	t.Run("Nobody answers", func(t *testing.T) {
		ts := newTokenServer(t)
		consent := LoopbackConsent{Out: &bytes.Buffer{}, Timeout: 50 * time.Millisecond}

		_, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if !errors.Is(err, ErrConsentDeclined) {
			t.Fatalf("expected ErrConsentDeclined, got %v", err)
		}
	})

	t.Run("Exchange rejected", func(t *testing.T) {
		ts := newTokenServer(t)
		ts.setReject(true)
		consent := LoopbackConsent{
			Out:     &bytes.Buffer{},
			Timeout: 5 * time.Second,
			Open: browser(t, func(state string) url.Values {
				return url.Values{"code": {"bad"}, "state": {state}}
			}),
		}

		_, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if !errors.Is(err, ErrConsentDeclined) {
			t.Fatalf("expected ErrConsentDeclined, got %v", err)
		}
	})
}

func TestPromptConsent(t *testing.T) {
	t.Run("Pasted code is exchanged", func(t *testing.T) {
		ts := newTokenServer(t)
		var out bytes.Buffer
		consent := PromptConsent{In: strings.NewReader("  pasted-code \n"), Out: &out}

		tok, err := consent.Obtain(context.Background(), testOAuthConfig(ts.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "fresh-access" {
			t.Errorf("unexpected token %q", tok.AccessToken)
		}
		calls := ts.calls()
		if len(calls) != 1 || calls[0]["code"] != "pasted-code" || calls[0]["code_verifier"] == "" {
			t.Errorf("unexpected exchange: %v", calls)
		}
		if !strings.Contains(out.String(), "Step 1") {
			t.Errorf("instructions not printed: %q", out.String())
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		consent := PromptConsent{In: strings.NewReader(""), Out: &bytes.Buffer{}}
		_, err := consent.Obtain(context.Background(), testOAuthConfig("http://127.0.0.1:1/token"))
		if !errors.Is(err, ErrConsentDeclined) {
			t.Fatalf("expected ErrConsentDeclined, got %v", err)
		}
	})
}

func TestNoConsent(t *testing.T) {
	_, err := NoConsent{}.Obtain(context.Background(), testOAuthConfig("unused"))
	if !errors.Is(err, ErrConsentDeclined) {
		t.Fatalf("expected ErrConsentDeclined, got %v", err)
	}
	if !strings.Contains(err.Error(), "snapcal auth") {
		t.Errorf("expected a hint to run the auth command, got %v", fmt.Sprint(err))
	}
}
