package http

import (
	"errors"
	"net/http"

	"snapcal/internal/event"
)

var (
	errMissingFile    = errors.New("file is required")
	errNotImage       = errors.New("File must be an image")
	errUploadTooLarge = errors.New("file is too large")
)

// errorDetail is the per-kind payload carried in the Errors field.
type errorDetail struct {
	Kind   string `json:"kind"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// mapError translates request and pipeline errors into a status, message and detail.
func (h *handler) mapError(err error) (int, string, *errorDetail) {
	switch {
	case errors.Is(err, errMissingFile), errors.Is(err, errNotImage):
		return http.StatusBadRequest, err.Error(), &errorDetail{Kind: "bad_request"}
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error(), &errorDetail{Kind: "too_large"}
	case errors.Is(err, event.ErrImageRead):
		return http.StatusBadRequest, event.ErrImageRead.Error(), &errorDetail{Kind: "image_read"}
	case errors.Is(err, event.ErrParse):
		return http.StatusUnprocessableEntity, event.ErrParse.Error(), &errorDetail{Kind: "parse"}
	case errors.Is(err, event.ErrValidation):
		d := &errorDetail{Kind: "validation"}
		var ve *event.ValidationError
		if errors.As(err, &ve) {
			d.Field = ve.Field
			d.Reason = ve.Reason
			return http.StatusUnprocessableEntity, ve.Error(), d
		}
		return http.StatusUnprocessableEntity, event.ErrValidation.Error(), d
	case errors.Is(err, event.ErrAuth):
		return http.StatusUnauthorized, event.ErrAuth.Error(), &errorDetail{Kind: "auth"}
	case errors.Is(err, event.ErrExtraction):
		return http.StatusBadGateway, event.ErrExtraction.Error(), &errorDetail{Kind: "extraction"}
	case errors.Is(err, event.ErrCalendarWrite):
		return http.StatusBadGateway, event.ErrCalendarWrite.Error(), &errorDetail{Kind: "calendar_write"}
	default:
		return http.StatusInternalServerError, "Internal server error", &errorDetail{Kind: "internal"}
	}
}
