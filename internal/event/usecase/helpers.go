package usecase

import (
	"strconv"

	"snapcal/internal/model"
	"snapcal/pkg/gcalendar"
)

func fmtScalar(v any) string {
	switch s := v.(type) {
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// toCreateRequest maps a validated event onto the calendar insert, field for field.
func toCreateRequest(ev model.ValidatedEvent) gcalendar.CreateEventRequest {
	return gcalendar.CreateEventRequest{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       gcalendar.EventDateTime{DateTime: ev.Start.DateTime, TimeZone: ev.Start.TimeZone},
		End:         gcalendar.EventDateTime{DateTime: ev.End.DateTime, TimeZone: ev.End.TimeZone},
	}
}
