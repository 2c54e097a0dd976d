package usecase

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"snapcal/internal/event"
	"snapcal/internal/model"
)

// fencedObject captures the outermost {...} inside a ``` or ```json fence.
var fencedObject = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractObjectText returns the fenced object if there is one, else the reply unchanged.
func extractObjectText(reply string) string {
	if m := fencedObject.FindStringSubmatch(reply); m != nil {
		return m[1]
	}
	return reply
}

// parseReply decodes the model reply into a draft. Only a JSON object is accepted.
func parseReply(reply string) (model.EventDraft, error) {
	text := extractObjectText(reply)

	if strings.TrimSpace(text) == "" {
		return nil, &event.ParseError{Reply: reply, Err: errors.New("empty reply")}
	}

	var draft model.EventDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, &event.ParseError{Reply: reply, Err: err}
	}
	if draft == nil {
		return nil, &event.ParseError{Reply: reply, Err: errors.New("reply is null, not an object")}
	}
	return draft, nil
}
