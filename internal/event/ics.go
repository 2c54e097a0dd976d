package event

import (
	"fmt"
	"time"

	"snapcal/internal/model"
	"snapcal/pkg/datemath"
	"snapcal/pkg/icsexport"
)

// ICSEvent converts a validated event for iCalendar export.
// Date-times without an offset are read in the event's own time zone when it loads, else in fallback.
func ICSEvent(ev model.ValidatedEvent, fallback *time.Location) (icsexport.Event, error) {
	start, err := resolve(ev.Start, fallback)
	if err != nil {
		return icsexport.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := resolve(ev.End, fallback)
	if err != nil {
		return icsexport.Event{}, fmt.Errorf("end: %w", err)
	}
	return icsexport.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
	}, nil
}

func resolve(dt model.EventDateTime, fallback *time.Location) (time.Time, error) {
	loc := fallback
	if dt.TimeZone != "" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	return datemath.ParseISO(datemath.NormalizeZulu(dt.DateTime), loc)
}
