package gcalendar

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// DefaultCalendarID is the authenticated user's main calendar.
const DefaultCalendarID = "primary"

// Client writes events to Google Calendar with caller-supplied Credentials.
type Client struct {
	calendarID string
	base       *http.Client
}

// NewClient creates a Calendar client. httpClient is the transport the OAuth layer wraps; nil uses the default.
func NewClient(calendarID string, httpClient *http.Client) *Client {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{calendarID: calendarID, base: httpClient}
}

// CalendarID returns the calendar events are written to by default.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// CreateEvent inserts one event. Fields are sent as given; no retry.
func (c *Client) CreateEvent(ctx context.Context, creds Credentials, req CreateEventRequest) (*Event, error) {
	if creds.Token == nil {
		return nil, fmt.Errorf("%w: missing credentials", ErrInsert)
	}

	svc, err := c.service(ctx, creds)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.DateTime,
			TimeZone: req.Start.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.DateTime,
			TimeZone: req.End.TimeZone,
		},
	}

	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = c.calendarID
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsert, err)
	}

	return &Event{
		ID:       created.Id,
		Summary:  created.Summary,
		HtmlLink: created.HtmlLink,
	}, nil
}

func (c *Client) service(ctx context.Context, creds Credentials) (*calendar.Service, error) {
	hc := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(creds.Token),
			Base:   c.base.Transport,
		},
		Timeout: c.base.Timeout,
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}
