package gcalendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFileTokenStore(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
		_, err := store.Load()
		if !errors.Is(err, errNoToken) {
			t.Fatalf("expected errNoToken, got %v", err)
		}
	})

	t.Run("Save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		store := NewFileTokenStore(path)
		expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

		err := store.Save(Credentials{
			Token:  &oauth2.Token{AccessToken: "at", TokenType: "Bearer", RefreshToken: "rt", Expiry: expiry},
			Scopes: []string{EventsScope},
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm() != 0o600 {
				t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
			}
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.Token.AccessToken != "at" || got.Token.RefreshToken != "rt" || !got.Token.Expiry.Equal(expiry) {
			t.Errorf("unexpected token: %+v", got.Token)
		}
		if len(got.Scopes) != 1 || got.Scopes[0] != EventsScope {
			t.Errorf("unexpected scopes: %v", got.Scopes)
		}

		matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
		if len(matches) != 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	})

	t.Run("Corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		os.WriteFile(path, []byte(`{"broken": true`), 0o600)

		_, err := NewFileTokenStore(path).Load()
		if !errors.Is(err, ErrTokenStore) {
			t.Fatalf("expected ErrTokenStore, got %v", err)
		}
	})

	t.Run("Save without token", func(t *testing.T) {
		store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
		if err := store.Save(Credentials{}); !errors.Is(err, ErrTokenStore) {
			t.Fatalf("expected ErrTokenStore, got %v", err)
		}
	})

	t.Run("Lock is exclusive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		first := NewFileTokenStore(path)
		second := NewFileTokenStore(path)

		unlock, err := first.Lock(context.Background())
		if err != nil {
			t.Fatalf("lock: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		if _, err := second.Lock(ctx); !errors.Is(err, ErrTokenStore) {
			t.Fatalf("expected second lock to time out, got %v", err)
		}

		unlock()
		unlock2, err := second.Lock(context.Background())
		if err != nil {
			t.Fatalf("lock after release: %v", err)
		}
		unlock2()
	})
}
