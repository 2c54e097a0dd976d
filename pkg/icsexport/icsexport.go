// Package icsexport renders events as an iCalendar (RFC 5545) document.
package icsexport

import (
	"fmt"
	"io"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// ProductID identifies the generator in PRODID.
const ProductID = "-//snapcal//snapcal//EN"

// ContentType is the media type of an encoded document.
const ContentType = "text/calendar; charset=utf-8"

// Event is one VEVENT. Times are written in UTC.
type Event struct {
	UID         string // generated when empty
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Build assembles a PUBLISH calendar holding events.
func Build(now time.Time, events ...Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		uid := e.UID
		if uid == "" {
			uid = uuid.NewString() + "@snapcal"
		}
		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(now)
		ve.SetCreatedTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Summary)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
	}
	return cal
}

// Encode writes the calendar for events to w.
func Encode(w io.Writer, events ...Event) error {
	if len(events) == 0 {
		return fmt.Errorf("icsexport: no events")
	}
	_, err := io.WriteString(w, Build(time.Now().UTC(), events...).Serialize())
	return err
}

// WriteFile writes the calendar for events to path.
func WriteFile(path string, events ...Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("icsexport: %w", err)
	}
	if err := Encode(f, events...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
