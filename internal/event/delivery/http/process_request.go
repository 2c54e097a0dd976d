package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	formFile      = "file"
	formatICS     = "ics"
	tempFilePerms = 0o600
)

// uploadReq is a stored upload. cleanup removes the temp file.
type uploadReq struct {
	Path     string
	Filename string
	cleanup  func()
}

// processUploadReq reads the multipart "file" field into a temp file that keeps the
// upload's extension. The caller must call cleanup.
func (h *handler) processUploadReq(c *gin.Context) (uploadReq, error) {
	fh, err := c.FormFile(formFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return uploadReq{}, errUploadTooLarge
		}
		return uploadReq{}, errMissingFile
	}

	if !isImage(fh) {
		return uploadReq{}, errNotImage
	}

	path, err := h.store(fh)
	if err != nil {
		return uploadReq{}, err
	}

	return uploadReq{
		Path:     path,
		Filename: fh.Filename,
		cleanup: func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				h.l.Warnf(c.Request.Context(), "event.http.cleanup: %v", err)
			}
		},
	}, nil
}

func isImage(fh *multipart.FileHeader) bool {
	return strings.HasPrefix(fh.Header.Get("Content-Type"), "image/")
}

func (h *handler) store(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(h.tempDir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, tempFilePerms)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func wantsICS(c *gin.Context) bool {
	return strings.EqualFold(c.Query("format"), formatICS)
}
