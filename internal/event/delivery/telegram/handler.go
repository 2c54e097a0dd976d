package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snapcal/internal/event"
	pkgResponse "snapcal/pkg/response"
	pkgTelegram "snapcal/pkg/telegram"
)

const (
	startMessage = "Send me a photo or screenshot of an event notice and I will add it to your Google Calendar."
	ackMessage   = "Processing your image..."
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and runs the pipeline in a background goroutine,
// since a vision call plus a calendar insert can outlast Telegram's webhook timeout.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message

	// Keep the trace id, drop the request cancellation.
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.RunTimeout)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(bgCtx, msg.Chat.ID, errorMessage(err))
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message. Returned errors are reported to the chat.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	fileID, ext, err := imageOf(msg)
	if err != nil {
		return err
	}
	if fileID == "" {
		return h.bot.SendMessage(ctx, msg.Chat.ID, startMessage)
	}

	if err := h.bot.SendMessage(ctx, msg.Chat.ID, ackMessage); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	path, err := h.download(ctx, fileID, ext)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.l.Warnf(ctx, "telegram handler: cleanup: %v", err)
		}
	}()

	output, err := h.uc.Process(ctx, event.ProcessInput{ImagePath: path})
	if err != nil {
		return fmt.Errorf("uc.Process: %w", err)
	}

	h.replyCreated(ctx, msg.Chat.ID, output)
	return nil
}

// replyCreated reports a created event. Send failures are only logged: the event already exists.
func (h *handler) replyCreated(ctx context.Context, chatID int64, output event.ProcessOutput) {
	reply := fmt.Sprintf("Event created: *%s*\n%s", pkgTelegram.EscapeMarkdown(output.Event.Summary), output.Created.HTMLLink)
	err := h.bot.SendMessageWithMode(ctx, chatID, reply, "Markdown")
	if err == nil {
		return
	}
	h.l.Warnf(ctx, "telegram handler: formatted reply rejected, sending plain text: %v", err)

	plain := fmt.Sprintf("Event created: %s\n%s", output.Event.Summary, output.Created.HTMLLink)
	if err := h.bot.SendMessage(ctx, chatID, plain); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to send event link %s: %v", output.Created.HTMLLink, err)
	}
}

// imageOf picks the image carried by msg. An empty file id means the message has no image.
func imageOf(msg *pkgTelegram.Message) (fileID, ext string, err error) {
	if p := msg.LargestPhoto(); p != nil {
		return p.FileID, ".jpg", nil
	}
	if d := msg.Document; d != nil {
		if !strings.HasPrefix(d.MimeType, "image/") {
			return "", "", errNotImage
		}
		return d.FileID, strings.ToLower(filepath.Ext(d.FileName)), nil
	}
	return "", "", nil
}

func (h *handler) download(ctx context.Context, fileID, ext string) (string, error) {
	f, err := h.bot.GetFile(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", event.ErrImageRead, err)
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(f.FilePath))
	}

	path := filepath.Join(h.cfg.TempDir, uuid.NewString()+ext)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_, err = h.bot.DownloadFile(ctx, f.FilePath, dst, h.cfg.MaxBytes)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %w", event.ErrImageRead, err)
	}
	return path, nil
}
