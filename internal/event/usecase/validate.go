package usecase

import (
	"time"

	"snapcal/internal/event"
	"snapcal/internal/model"
	"snapcal/pkg/datemath"
)

var requiredFields = []string{"summary", "start", "end"}

// validateDraft checks required fields and date-time syntax, failing on the first problem.
// The draft itself is never modified.
func validateDraft(draft model.EventDraft, parser *datemath.Parser) (model.ValidatedEvent, error) {
	for _, field := range requiredFields {
		if _, ok := draft[field]; !ok {
			return model.ValidatedEvent{}, &event.ValidationError{Field: field, Reason: event.ReasonMissing}
		}
	}

	start, err := dateTimeOf(draft, "start", parser)
	if err != nil {
		return model.ValidatedEvent{}, err
	}
	end, err := dateTimeOf(draft, "end", parser)
	if err != nil {
		return model.ValidatedEvent{}, err
	}

	return model.ValidatedEvent{
		Summary:     stringOf(draft["summary"]),
		Start:       start,
		End:         end,
		Location:    stringOf(draft["location"]),
		Description: stringOf(draft["description"]),
		Draft:       draft,
	}, nil
}

func dateTimeOf(draft model.EventDraft, key string, parser *datemath.Parser) (model.EventDateTime, error) {
	field := key + ".dateTime"

	obj, ok := draft[key].(map[string]any)
	if !ok {
		return model.EventDateTime{}, &event.ValidationError{Field: field, Reason: event.ReasonMissing}
	}
	raw, ok := obj["dateTime"]
	if !ok {
		return model.EventDateTime{}, &event.ValidationError{Field: field, Reason: event.ReasonMissing}
	}
	value, ok := raw.(string)
	if !ok {
		return model.EventDateTime{}, &event.ValidationError{Field: field, Reason: event.ReasonMalformed}
	}

	if _, err := parseDateTime(value, parser); err != nil {
		return model.EventDateTime{}, &event.ValidationError{Field: field, Reason: event.ReasonMalformed, Err: err}
	}

	return model.EventDateTime{
		DateTime: value,
		TimeZone: stringOf(obj["timeZone"]),
	}, nil
}

func parseDateTime(value string, parser *datemath.Parser) (time.Time, error) {
	value = datemath.NormalizeZulu(value)
	if parser != nil {
		return parser.Parse(value)
	}
	return datemath.ParseISO(value, nil)
}

// stringOf renders scalar JSON values as text; objects and arrays yield "".
func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case bool, float64:
		return fmtScalar(s)
	default:
		return ""
	}
}
