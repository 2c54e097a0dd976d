package http

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"snapcal/internal/event"
	"snapcal/pkg/log"
)

// Handler is the public interface for the event HTTP delivery layer.
type Handler interface {
	ProcessImage(c *gin.Context)
	ProcessImageLegacy(c *gin.Context)
	Extract(c *gin.Context)
}

// Config holds the handler settings.
type Config struct {
	// TempDir receives uploads for the duration of a run. Defaults to os.TempDir().
	TempDir string
	// Location is used when rendering ICS for events without their own zone.
	Location *time.Location
}

type handler struct {
	l       log.Logger
	uc      event.UseCase
	tempDir string
	loc     *time.Location
}

// New creates a new HTTP handler for the event domain.
func New(l log.Logger, uc event.UseCase, cfg Config) Handler {
	h := &handler{
		l:       l,
		uc:      uc,
		tempDir: cfg.TempDir,
		loc:     cfg.Location,
	}
	if h.tempDir == "" {
		h.tempDir = os.TempDir()
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	return h
}
