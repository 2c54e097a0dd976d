package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"snapcal/pkg/gcalendar"
	"snapcal/pkg/log"
)

// JobsConfig holds the cron schedules. An empty schedule disables its job.
type JobsConfig struct {
	TokenKeepalive string
	UploadSweep    string
	UploadDir      string
	UploadMaxAge   time.Duration
}

// credentialStatus is the part of the credential manager the keepalive job needs.
type credentialStatus interface {
	Status(ctx context.Context) (gcalendar.State, error)
	Get(ctx context.Context) (gcalendar.Credentials, error)
}

// StartJobs schedules the background jobs and returns the running scheduler.
// Stop it with Stop(), which returns a context done when running jobs finish.
func StartJobs(ctx context.Context, l log.Logger, creds credentialStatus, cfg JobsConfig) (*cron.Cron, error) {
	cl := cronLogger{l: l}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	if cfg.TokenKeepalive != "" && creds != nil {
		if _, err := c.AddFunc(cfg.TokenKeepalive, func() { keepTokenAlive(ctx, l, creds) }); err != nil {
			return nil, fmt.Errorf("jobs.token_keepalive %q: %w", cfg.TokenKeepalive, err)
		}
		l.Infof(ctx, "Job scheduled: token keepalive (%s)", cfg.TokenKeepalive)
	}

	if cfg.UploadSweep != "" && cfg.UploadDir != "" && cfg.UploadMaxAge > 0 {
		if _, err := c.AddFunc(cfg.UploadSweep, func() {
			n, err := sweepUploads(cfg.UploadDir, cfg.UploadMaxAge, time.Now())
			if err != nil {
				l.Warnf(ctx, "app.jobs.sweepUploads: %v", err)
				return
			}
			if n > 0 {
				l.Infof(ctx, "app.jobs.sweepUploads: removed %d stale uploads", n)
			}
		}); err != nil {
			return nil, fmt.Errorf("jobs.upload_sweep %q: %w", cfg.UploadSweep, err)
		}
		l.Infof(ctx, "Job scheduled: upload sweep (%s, max age %s)", cfg.UploadSweep, cfg.UploadMaxAge)
	}

	c.Start()
	return c, nil
}

// keepTokenAlive refreshes an expired token so the refresh token keeps being used.
// It never starts a consent flow.
func keepTokenAlive(ctx context.Context, l log.Logger, creds credentialStatus) {
	st, err := creds.Status(ctx)
	if err != nil {
		l.Warnf(ctx, "app.jobs.keepTokenAlive: status: %v", err)
		return
	}
	switch st {
	case gcalendar.StateValid:
		l.Debugf(ctx, "app.jobs.keepTokenAlive: token valid")
	case gcalendar.StateExpired:
		if _, err := creds.Get(ctx); err != nil {
			l.Warnf(ctx, "app.jobs.keepTokenAlive: refresh failed: %v", err)
		}
	default:
		l.Warnf(ctx, "app.jobs.keepTokenAlive: no calendar token stored, run `snapcal auth`")
	}
}

// sweepUploads removes regular files in dir older than maxAge.
func sweepUploads(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// cronLogger adapts log.Logger to cron.Logger.
type cronLogger struct {
	l log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(context.Background(), append([]interface{}{"cron: " + msg}, keysAndValues...)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(context.Background(), append([]interface{}{"cron: " + msg, "error", err}, keysAndValues...)...)
}
