package http

import (
	"snapcal/internal/event"
	"snapcal/internal/model"
	"snapcal/pkg/icsexport"
)

// --- Request DTOs ---

func (r uploadReq) toInput() event.ProcessInput {
	return event.ProcessInput{ImagePath: r.Path}
}

// --- Response DTOs ---

type eventResp struct {
	Summary     string              `json:"summary"`
	Start       model.EventDateTime `json:"start"`
	End         model.EventDateTime `json:"end"`
	Location    string              `json:"location,omitempty"`
	Description string              `json:"description,omitempty"`
}

func newEventResp(ev model.ValidatedEvent) eventResp {
	return eventResp{
		Summary:     ev.Summary,
		Start:       ev.Start,
		End:         ev.End,
		Location:    ev.Location,
		Description: ev.Description,
	}
}

type processResp struct {
	Success   bool      `json:"success"`
	EventID   string    `json:"event_id"`
	EventLink string    `json:"event_link"`
	Event     eventResp `json:"event"`
}

func (h *handler) newProcessResp(o event.ProcessOutput) processResp {
	return processResp{
		Success:   true,
		EventID:   o.Created.ID,
		EventLink: o.Created.HTMLLink,
		Event:     newEventResp(o.Event),
	}
}

// legacyProcessResp is the body served on /api/process-image.
type legacyProcessResp struct {
	Success   bool   `json:"success"`
	EventLink string `json:"event_link,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type extractResp struct {
	Event    eventResp `json:"event"`
	Provider string    `json:"provider,omitempty"`
	Model    string    `json:"model,omitempty"`
}

func (h *handler) newExtractResp(o event.ExtractOutput) extractResp {
	return extractResp{
		Event:    newEventResp(o.Event),
		Provider: o.Provider,
		Model:    o.Model,
	}
}

func (h *handler) newICSEvent(o event.ExtractOutput) (icsexport.Event, error) {
	return event.ICSEvent(o.Event, h.loc)
}
