package gcalendar

// EventDateTime is an RFC 3339 / ISO-8601 timestamp plus an optional IANA zone.
// DateTime is forwarded to the API exactly as given.
type EventDateTime struct {
	DateTime string
	TimeZone string // e.g. "Europe/Madrid"
}

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string // falls back to the client's calendar
	Summary     string
	Description string
	Location    string
	Start       EventDateTime
	End         EventDateTime
}

// Event is a simplified representation of a created Google Calendar event.
type Event struct {
	ID       string
	Summary  string
	HtmlLink string
}
