package telegram

import (
	"errors"
	"fmt"

	"snapcal/internal/event"
	pkgTelegram "snapcal/pkg/telegram"
)

var errNotImage = errors.New("document is not an image")

// errorMessage returns a user-facing reply for the given error.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errNotImage):
		return "That file is not an image. Send a photo of the event notice."
	case errors.Is(err, pkgTelegram.ErrFileTooLarge):
		return "That image is too large."
	case errors.Is(err, event.ErrImageRead):
		return "I could not read that image. Try sending it again."
	case errors.Is(err, event.ErrExtraction):
		return "The vision model is not answering right now. Try again in a minute."
	case errors.Is(err, event.ErrParse):
		return "I could not find an event in that image."
	case errors.Is(err, event.ErrValidation):
		var ve *event.ValidationError
		if errors.As(err, &ve) {
			return fmt.Sprintf("The event I found is incomplete (%s %s). Try a clearer image.", ve.Reason, ve.Field)
		}
		return "The event I found is incomplete. Try a clearer image."
	case errors.Is(err, event.ErrAuth):
		return "Calendar access is not authorized. Run `snapcal auth` on the server."
	case errors.Is(err, event.ErrCalendarWrite):
		return "Google Calendar rejected the event."
	default:
		return "Something went wrong while processing your image. Please try again."
	}
}
