package icsexport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
)

func TestEncode(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	ev := Event{
		UID:         "evt-1@snapcal",
		Summary:     "Team Sync",
		Location:    "Room 2",
		Description: "Weekly",
		Start:       time.Date(2024, 3, 15, 10, 0, 0, 0, madrid),
		End:         time.Date(2024, 3, 15, 11, 0, 0, 0, madrid),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ev); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"BEGIN:VCALENDAR", "METHOD:PUBLISH", "PRODID:" + ProductID, "DTSTART:20240315T090000Z", "DTEND:20240315T100000Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected one VEVENT, got %d", len(events))
	}
	if p := events[0].GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Team Sync" {
		t.Errorf("unexpected summary: %+v", p)
	}
	if p := events[0].GetProperty(ical.ComponentPropertyUniqueId); p == nil || p.Value != "evt-1@snapcal" {
		t.Errorf("unexpected uid: %+v", p)
	}
	start, err := events[0].GetStartAt()
	if err != nil || !start.Equal(ev.Start) {
		t.Errorf("unexpected start %v (%v)", start, err)
	}
}

func TestEncode_OptionalFieldsAndUID(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, Event{
		Summary: "Dentist",
		Start:   time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "LOCATION") || strings.Contains(out, "DESCRIPTION") {
		t.Errorf("empty optional fields must be omitted:\n%s", out)
	}
	if !strings.Contains(out, "@snapcal") {
		t.Errorf("expected generated uid:\n%s", out)
	}
}

func TestEncode_NoEvents(t *testing.T) {
	if err := Encode(&bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for empty calendar")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.ics")
	err := WriteFile(path, Event{Summary: "X", Start: time.Now(), End: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(data, []byte("BEGIN:VCALENDAR")) {
		t.Fatalf("unexpected file content: %q %v", data, err)
	}
}
