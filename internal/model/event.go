package model

// EventDraft is the model's reply decoded as a JSON object, before validation.
// Absent keys stay absent so the validator can tell missing from empty.
type EventDraft map[string]any

// EventDateTime is one end of an event.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// ValidatedEvent is a draft that passed validation.
// DateTime strings are kept verbatim; Draft is the original mapping, unchanged.
type ValidatedEvent struct {
	Summary     string        `json:"summary"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	Location    string        `json:"location,omitempty"`
	Description string        `json:"description,omitempty"`
	Draft       EventDraft    `json:"-"`
}

// CreatedEventReference identifies an event on the remote calendar.
type CreatedEventReference struct {
	ID       string `json:"id"`
	HTMLLink string `json:"html_link"`
}
