package usecase

import (
	"fmt"
	"time"
)

const dateFormatISO = "2006-01-02"

const dateContextTemplate = `
Today is %s (%s) in %s. If the image gives a date without a year, use the next occurrence on or after today.`

// buildDateContext anchors dates that omit the year. Unknown zones fall back to UTC.
func buildDateContext(now time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)
	return fmt.Sprintf(dateContextTemplate, now.Format(dateFormatISO), now.Weekday(), loc)
}
