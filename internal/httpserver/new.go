package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	eventHTTP "snapcal/internal/event/delivery/http"
	tgDelivery "snapcal/internal/event/delivery/telegram"
	"snapcal/internal/middleware"
	"snapcal/pkg/log"
)

const defaultShutdownTimeout = 30 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	mw              middleware.Middleware
	readyCheck      func(ctx context.Context) error

	// Event domain
	eventHandler    eventHTTP.Handler
	telegramHandler tgDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Middleware      middleware.Middleware

	// ReadyCheck backs /ready. Nil means always ready.
	ReadyCheck func(ctx context.Context) error

	// Event domain
	EventHandler    eventHTTP.Handler
	TelegramHandler tgDelivery.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		requestTimeout:  cfg.RequestTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		mw:              cfg.Middleware,
		readyCheck:      cfg.ReadyCheck,
		eventHandler:    cfg.EventHandler,
		telegramHandler: cfg.TelegramHandler,
	}
	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = defaultShutdownTimeout
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.eventHandler == nil {
		return errors.New("event handler is required")
	}
	return nil
}
