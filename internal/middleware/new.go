package middleware

import (
	"snapcal/pkg/log"
)

// Config holds the HTTP middleware settings.
type Config struct {
	CORSOrigins     []string
	RateLimitPerMin int // 0 disables rate limiting
	MaxUploadBytes  int64
}

type Middleware struct {
	l       log.Logger
	config  Config
	limiter *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	mw := Middleware{
		l:      l,
		config: cfg,
	}
	if cfg.RateLimitPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	return mw
}
