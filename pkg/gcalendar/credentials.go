package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	pkgLog "snapcal/pkg/log"
)

// EventsScope is the only permission requested: create and edit events.
const EventsScope = calendar.CalendarEventsScope

// State describes stored credentials.
type State int

const (
	StateAbsent State = iota
	StateExpired
	StateValid
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "absent"
	}
}

// Credentials authorize calls to the calendar on the user's behalf.
type Credentials struct {
	Token  *oauth2.Token
	Scopes []string
}

// State reports whether the credentials can be used as-is, refreshed, or must be replaced.
// Expired credentials without a refresh token count as absent.
func (c Credentials) State() State {
	if c.Token == nil || c.Token.AccessToken == "" {
		return StateAbsent
	}
	if c.Token.Valid() {
		return StateValid
	}
	if c.Token.RefreshToken == "" {
		return StateAbsent
	}
	return StateExpired
}

func (c Credentials) hasScopes(required []string) bool {
	// Token files written by older tools carry no scopes; accept them.
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range required {
		if !slices.Contains(c.Scopes, s) {
			return false
		}
	}
	return true
}

// CredentialConfig configures a CredentialManager.
type CredentialConfig struct {
	ClientSecretPath string   // OAuth desktop client secret JSON
	TokenPath        string   // token store location
	Scopes           []string // defaults to EventsScope
	Consent          Consent  // defaults to NoConsent
	HTTPClient       *http.Client
}

// CredentialManager returns usable Credentials, refreshing or re-consenting as needed.
// Get is safe for concurrent use within a process; the token file lock covers other processes.
type CredentialManager struct {
	l       pkgLog.Logger
	cfg     CredentialConfig
	store   *FileTokenStore
	consent Consent
	sem     chan struct{} // held across the read-refresh-write sequence
}

// NewCredentialManager creates a CredentialManager.
func NewCredentialManager(l pkgLog.Logger, cfg CredentialConfig) (*CredentialManager, error) {
	if cfg.TokenPath == "" {
		return nil, fmt.Errorf("%w: token path is required", ErrTokenStore)
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{EventsScope}
	}
	consent := cfg.Consent
	if consent == nil {
		consent = NoConsent{}
	}
	return &CredentialManager{
		l:       l,
		cfg:     cfg,
		store:   NewFileTokenStore(cfg.TokenPath),
		consent: consent,
		sem:     make(chan struct{}, 1),
	}, nil
}

// acquire takes the in-process lock, giving up when ctx is done.
// Consent can hold it for minutes, so waiters must not outlive their deadline.
func (m *CredentialManager) acquire(ctx context.Context) (func(), error) {
	select {
	case m.sem <- struct{}{}:
		return func() { <-m.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns valid credentials.
//
//	absent  -> consent, persist
//	expired -> refresh, persist
//	valid   -> as stored
func (m *CredentialManager) Get(ctx context.Context) (Credentials, error) {
	release, err := m.acquire(ctx)
	if err != nil {
		return Credentials{}, err
	}
	defer release()

	unlock, err := m.store.Lock(ctx)
	if err != nil {
		return Credentials{}, err
	}
	defer unlock()

	creds, err := m.store.Load()
	if err != nil && !errors.Is(err, errNoToken) {
		m.l.Warnf(ctx, "gcalendar.CredentialManager.Get: ignoring unreadable token store: %v", err)
		creds = Credentials{}
	}
	if !creds.hasScopes(m.cfg.Scopes) {
		m.l.Infof(ctx, "gcalendar.CredentialManager.Get: stored token lacks required scopes, requesting consent")
		creds = Credentials{}
	}

	state := creds.State()
	m.l.Debugf(ctx, "gcalendar.CredentialManager.Get: stored credentials are %s", state)

	switch state {
	case StateValid:
		return creds, nil
	case StateExpired:
		return m.refresh(ctx, creds)
	default:
		return m.authorize(ctx)
	}
}

// Authorize runs the consent flow unconditionally and persists the result.
func (m *CredentialManager) Authorize(ctx context.Context) (Credentials, error) {
	release, err := m.acquire(ctx)
	if err != nil {
		return Credentials{}, err
	}
	defer release()

	unlock, err := m.store.Lock(ctx)
	if err != nil {
		return Credentials{}, err
	}
	defer unlock()

	return m.authorize(ctx)
}

// Status reports the stored credential state without refreshing or asking for consent.
// It waits for a running refresh or consent only until ctx is done.
func (m *CredentialManager) Status(ctx context.Context) (State, error) {
	release, err := m.acquire(ctx)
	if err != nil {
		return StateAbsent, err
	}
	defer release()

	unlock, err := m.store.Lock(ctx)
	if err != nil {
		return StateAbsent, err
	}
	defer unlock()

	creds, err := m.store.Load()
	if err != nil && !errors.Is(err, errNoToken) {
		return StateAbsent, err
	}
	if !creds.hasScopes(m.cfg.Scopes) {
		return StateAbsent, nil
	}
	return creds.State(), nil
}

// TokenPath returns where credentials are persisted.
func (m *CredentialManager) TokenPath() string {
	return m.store.Path()
}

func (m *CredentialManager) refresh(ctx context.Context, creds Credentials) (Credentials, error) {
	oc, err := m.oauthConfig()
	if err != nil {
		return Credentials{}, err
	}

	stale := &oauth2.Token{RefreshToken: creds.Token.RefreshToken}
	tok, err := oc.TokenSource(m.httpContext(ctx), stale).Token()
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}

	fresh := Credentials{Token: tok, Scopes: creds.Scopes}
	if err := m.store.Save(fresh); err != nil {
		return Credentials{}, err
	}
	m.l.Infof(ctx, "gcalendar.CredentialManager.refresh: token refreshed, expires %s", tok.Expiry.Format("2006-01-02 15:04:05"))
	return fresh, nil
}

func (m *CredentialManager) authorize(ctx context.Context) (Credentials, error) {
	oc, err := m.oauthConfig()
	if err != nil {
		return Credentials{}, err
	}

	tok, err := m.consent.Obtain(m.httpContext(ctx), oc)
	if err != nil {
		if errors.Is(err, ErrConsentDeclined) {
			return Credentials{}, err
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrConsentDeclined, err)
	}

	creds := Credentials{Token: tok, Scopes: m.cfg.Scopes}
	if err := m.store.Save(creds); err != nil {
		return Credentials{}, err
	}
	m.l.Infof(ctx, "gcalendar.CredentialManager.authorize: new token saved to %s", m.store.Path())
	return creds, nil
}

func (m *CredentialManager) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(m.cfg.ClientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrClientConfig, m.cfg.ClientSecretPath, err)
	}
	oc, err := google.ConfigFromJSON(data, m.cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientConfig, err)
	}
	return oc, nil
}

func (m *CredentialManager) httpContext(ctx context.Context) context.Context {
	if m.cfg.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.cfg.HTTPClient)
}
