package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidISO is returned for strings that are not ISO-8601 date-times.
var ErrInvalidISO = errors.New("invalid isoformat string")

// isoPattern accepts YYYY-MM-DD with an optional time (HH, HH:MM, HH:MM:SS,
// fractional seconds) and an optional numeric UTC offset.
var isoPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})` +
		`(?:[T ](\d{2})(?::(\d{2})(?::(\d{2})(?:[.,](\d{1,9}))?)?)?` +
		`([+-]\d{2}(?::?\d{2})?)?)?$`)

// Parser resolves ISO-8601 strings, interpreting values without an offset
// in its location.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/Madrid"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse parses value, placing offset-less values in the parser's timezone.
func (p *Parser) Parse(value string) (time.Time, error) {
	return ParseISO(value, p.location)
}

// NormalizeZulu rewrites a trailing UTC designator "Z" as "+00:00".
func NormalizeZulu(value string) string {
	if strings.HasSuffix(value, "Z") {
		return strings.TrimSuffix(value, "Z") + "+00:00"
	}
	return value
}

// ParseISO parses an ISO-8601 date or date-time. A trailing "Z" is accepted.
// Values without an offset are placed in loc (UTC when loc is nil).
func ParseISO(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	m := isoPattern.FindStringSubmatch(NormalizeZulu(value))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidISO, value)
	}

	year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
	hour, minute, sec := atoi(m[4]), atoi(m[5]), atoi(m[6])

	nsec := 0
	if m[7] != "" {
		frac := m[7] + strings.Repeat("0", 9-len(m[7]))
		nsec = atoi(frac)
	}

	if month < 1 || month > 12 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("%w: %q: component out of range", ErrInvalidISO, value)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: %q: day is out of range for month", ErrInvalidISO, value)
	}

	if m[8] != "" {
		offset, err := parseOffset(m[8])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidISO, value, err)
		}
		loc = time.FixedZone("", offset)
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc), nil
}

// parseOffset converts "+HH", "+HH:MM" or "+HHMM" to seconds east of UTC.
func parseOffset(s string) (int, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")

	hours := atoi(digits[:2])
	minutes := 0
	if len(digits) == 4 {
		minutes = atoi(digits[2:])
	}
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("offset %s out of range", s)
	}
	return sign * (hours*3600 + minutes*60), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// atoi parses a string of regexp-matched digits; empty means zero.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
