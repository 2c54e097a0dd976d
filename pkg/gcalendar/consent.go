package gcalendar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Consent obtains a fresh token from the user for the given OAuth client.
type Consent interface {
	Obtain(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error)
}

// NoConsent refuses interaction. Used where no user can answer, such as the API server.
type NoConsent struct{}

// Obtain always fails with ErrConsentDeclined.
func (NoConsent) Obtain(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error) {
	return nil, fmt.Errorf("%w: no usable token and interactive consent is disabled, run `snapcal auth` first", ErrConsentDeclined)
}

// LoopbackConsent serves the OAuth redirect on a local port and waits for the browser to hit it.
type LoopbackConsent struct {
	// ListenAddr defaults to 127.0.0.1:0 (any free port).
	ListenAddr string
	// Out receives the authorization URL. Defaults to stderr.
	Out io.Writer
	// Open is called with the authorization URL, for example to launch a browser.
	Open func(authURL string) error
	// Timeout bounds the wait for the redirect. Zero waits for ctx.
	Timeout time.Duration
}

type callbackResult struct {
	code string
	err  error
}

// Obtain runs the authorization code flow with PKCE against a loopback redirect.
func (c LoopbackConsent) Obtain(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error) {
	addr := c.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	out := c.Out
	if out == nil {
		out = os.Stderr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}

	cfg := *oc
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce, oauth2.S256ChallengeOption(verifier))

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := readCallback(r, state)
			if !ok {
				// favicon, prefetch and the like
				http.NotFound(w, r)
				return
			}
			if res.err != nil {
				http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			} else {
				fmt.Fprintln(w, "Authorization complete. You can close this window.")
			}
			select {
			case results <- res:
			default:
			}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(out, "Open this URL in your browser to authorize calendar access:\n\n%s\n\n", authURL)
	if c.Open != nil {
		if err := c.Open(authURL); err != nil {
			fmt.Fprintf(out, "Could not open the browser automatically: %v\n", err)
		}
	}

	waitCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		return nil, fmt.Errorf("%w: waiting for redirect: %v", ErrConsentDeclined, waitCtx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrConsentDeclined, err)
	}
	return tok, nil
}

// readCallback interprets a request to the redirect listener. Requests carrying
// neither code nor error are not the redirect and report ok=false.
func readCallback(r *http.Request, state string) (res callbackResult, ok bool) {
	q := r.URL.Query()
	code, e := q.Get("code"), q.Get("error")
	if code == "" && e == "" {
		return callbackResult{}, false
	}
	if e != "" {
		return callbackResult{err: fmt.Errorf("%w: %s", ErrConsentDeclined, e)}, true
	}
	if q.Get("state") != state {
		return callbackResult{err: fmt.Errorf("%w: state mismatch", ErrConsentDeclined)}, true
	}
	return callbackResult{code: code}, true
}

// PromptConsent prints the authorization URL and reads the code pasted back by the user.
// Suited to hosts without a browser.
type PromptConsent struct {
	In  io.Reader // defaults to stdin
	Out io.Writer // defaults to stderr
}

// Obtain runs the paste-the-code flow with PKCE.
func (c PromptConsent) Obtain(ctx context.Context, oc *oauth2.Config) (*oauth2.Token, error) {
	in, out := c.In, c.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}

	verifier := oauth2.GenerateVerifier()
	authURL := oc.AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOffline, oauth2.ApprovalForce, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintf(out, "Step 1: open this URL in a browser and sign in:\n\n%s\n\n", authURL)
	fmt.Fprint(out, "Step 2: paste the authorization code here and press Enter: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read code: %v", ErrConsentDeclined, err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("%w: no code entered", ErrConsentDeclined)
	}

	tok, err := oc.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrConsentDeclined, err)
	}
	return tok, nil
}
