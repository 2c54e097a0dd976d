package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/oauth2"
)

const lockRetryDelay = 50 * time.Millisecond

// tokenFile is the on-disk layout of the token store.
type tokenFile struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// FileTokenStore keeps Credentials in a JSON file readable only by its owner.
// Lock guards the file across processes sharing it.
type FileTokenStore struct {
	path string
	lock *flock.Flock
}

// NewFileTokenStore creates a store backed by path; the lock file is path + ".lock".
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Lock blocks until the cross-process lock is held or ctx is done.
func (s *FileTokenStore) Lock(ctx context.Context) (func(), error) {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenStore, err)
		}
	}
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", ErrTokenStore, s.lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: lock %s not acquired", ErrTokenStore, s.lock.Path())
	}
	return func() { _ = s.lock.Unlock() }, nil
}

// Load reads the stored credentials. A missing file yields errNoToken.
func (s *FileTokenStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, errNoToken
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return Credentials{}, fmt.Errorf("%w: parse %s: %v", ErrTokenStore, s.path, err)
	}

	return Credentials{
		Token: &oauth2.Token{
			AccessToken:  tf.AccessToken,
			TokenType:    tf.TokenType,
			RefreshToken: tf.RefreshToken,
			Expiry:       tf.Expiry,
		},
		Scopes: tf.Scopes,
	}, nil
}

// Save replaces the token file atomically with mode 0600.
func (s *FileTokenStore) Save(creds Credentials) error {
	if creds.Token == nil {
		return fmt.Errorf("%w: nothing to save", ErrTokenStore)
	}

	data, err := json.MarshalIndent(tokenFile{
		AccessToken:  creds.Token.AccessToken,
		TokenType:    creds.Token.TokenType,
		RefreshToken: creds.Token.RefreshToken,
		Expiry:       creds.Token.Expiry,
		Scopes:       creds.Scopes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenStore, err)
	}
	return nil
}
