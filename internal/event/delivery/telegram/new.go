package telegram

import (
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"snapcal/internal/event"
	pkgLog "snapcal/pkg/log"
	pkgTelegram "snapcal/pkg/telegram"
)

const (
	defaultRunTimeout = 2 * time.Minute
	defaultMaxBytes   = 20 << 20
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
	// Wait blocks until in-flight background runs finish.
	Wait()
}

// Config holds the handler settings.
type Config struct {
	TempDir    string
	RunTimeout time.Duration
	MaxBytes   int64
}

type handler struct {
	l   pkgLog.Logger
	uc  event.UseCase
	bot *pkgTelegram.Bot
	cfg Config
	wg  sync.WaitGroup
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc event.UseCase, bot *pkgTelegram.Bot, cfg Config) Handler {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	return &handler{
		l:   l,
		uc:  uc,
		bot: bot,
		cfg: cfg,
	}
}

func (h *handler) Wait() {
	h.wg.Wait()
}
