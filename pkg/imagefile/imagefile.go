// Package imagefile loads an image from disk and encodes it for inline
// transport to a vision model.
package imagefile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIMEType is used when neither the extension nor the content identify the image.
const DefaultMIMEType = "image/jpeg"

// ErrRead is returned when the image file cannot be read.
var ErrRead = errors.New("image file unreadable")

var extensionMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".heif": "image/heif",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// Payload is an image ready to be embedded in a model request.
type Payload struct {
	MIMEType string
	Data     string // base64, standard encoding
	Size     int    // raw byte count
}

// Encode reads the file at path and returns its base64 payload.
func Encode(path string) (Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return EncodeBytes(raw, filepath.Ext(path)), nil
}

// EncodeBytes encodes raw image bytes. ext is the filename extension
// (with or without the dot) and may be empty.
func EncodeBytes(raw []byte, ext string) Payload {
	return Payload{
		MIMEType: DetectMIMEType(raw, ext),
		Data:     base64.StdEncoding.EncodeToString(raw),
		Size:     len(raw),
	}
}

// DetectMIMEType prefers the extension, then content sniffing, then DefaultMIMEType.
func DetectMIMEType(raw []byte, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if m, ok := extensionMIME[ext]; ok {
		return m
	}

	if len(raw) > 0 {
		if detected := mimetype.Detect(raw); strings.HasPrefix(detected.String(), "image/") {
			return detected.String()
		}
	}
	return DefaultMIMEType
}
