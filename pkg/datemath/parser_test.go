package datemath_test

import (
	"errors"
	"testing"
	"time"

	"snapcal/pkg/datemath"
)

func TestNewParser(t *testing.T) {
	_, err := datemath.NewParser("Europe/Madrid")
	if err != nil {
		t.Fatalf("unexpected error creating valid parser: %v", err)
	}

	_, err = datemath.NewParser("Invalid/Timezone")
	if err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestParseISO(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "Naive date-time",
			value: "2024-03-15T10:00:00",
			want:  time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "Trailing Z",
			value: "2024-03-15T10:00:00Z",
			want:  time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "Explicit offset",
			value: "2024-03-15T10:00:00+01:00",
			want:  time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "Compact offset",
			value: "2024-03-15T10:00:00-0230",
			want:  time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "Fractional seconds",
			value: "2024-03-15T10:00:00.250",
			want:  time.Date(2024, 3, 15, 10, 0, 0, 250000000, time.UTC),
		},
		{
			name:  "Minutes only",
			value: "2024-03-15T10:30",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "Space separator",
			value: "2024-03-15 10:30:00",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "Date only",
			value: "2024-03-15",
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "Garbage", value: "not-a-date", wantErr: true},
		{name: "Empty", value: "", wantErr: true},
		{name: "Month out of range", value: "2024-13-01T10:00:00", wantErr: true},
		{name: "Day out of range", value: "2023-02-29T10:00:00", wantErr: true},
		{name: "Hour out of range", value: "2024-03-15T24:00:00", wantErr: true},
		{name: "Offset out of range", value: "2024-03-15T10:00:00+25:00", wantErr: true},
		{name: "Double Z", value: "2024-03-15T10:00:00ZZ", wantErr: true},
		{name: "Human text", value: "March 15th at 10am", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := datemath.ParseISO(tt.value, nil)
			if tt.wantErr {
				if !errors.Is(err, datemath.ErrInvalidISO) {
					t.Fatalf("expected ErrInvalidISO, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseISO(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParser_Parse(t *testing.T) {
	parser, _ := datemath.NewParser("Europe/Madrid")

	got, err := parser.Parse("2024-03-15T10:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Madrid is UTC+1 in March before DST.
	want := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got.UTC())
	}

	got, err = parser.Parse("2024-03-15T10:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("explicit offset must win over parser location, got %v", got.UTC())
	}
}

func TestNormalizeZulu(t *testing.T) {
	if got := datemath.NormalizeZulu("2024-03-15T10:00:00Z"); got != "2024-03-15T10:00:00+00:00" {
		t.Errorf("unexpected normalisation: %s", got)
	}
	if got := datemath.NormalizeZulu("2024-03-15T10:00:00"); got != "2024-03-15T10:00:00" {
		t.Errorf("naive value must be untouched: %s", got)
	}
}
