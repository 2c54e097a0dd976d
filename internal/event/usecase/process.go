package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"snapcal/internal/event"
	"snapcal/internal/model"
	"snapcal/pkg/imagefile"
	"snapcal/pkg/llmprovider"
)

// Process runs the whole pipeline. Calendar creation is the last step, so a failure leaves nothing behind.
func (uc *implUseCase) Process(ctx context.Context, input event.ProcessInput) (event.ProcessOutput, error) {
	validated, _, err := uc.extractAndValidate(ctx, input)
	if err != nil {
		return event.ProcessOutput{}, err
	}

	uc.l.Infof(ctx, "event.usecase.Process: obtaining calendar credentials")
	creds, err := uc.creds.Get(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "event.usecase.Process: credentials: %v", err)
		return event.ProcessOutput{}, fmt.Errorf("%w: %w", event.ErrAuth, err)
	}

	uc.l.Infof(ctx, "event.usecase.Process: creating calendar event %q", validated.Summary)
	created, err := uc.calendar.CreateEvent(ctx, creds, toCreateRequest(validated))
	if err != nil {
		uc.l.Errorf(ctx, "event.usecase.Process: create event: %v", err)
		return event.ProcessOutput{}, fmt.Errorf("%w: %w", event.ErrCalendarWrite, err)
	}

	uc.l.Infof(ctx, "event.usecase.Process: event created: %s", created.HtmlLink)
	return event.ProcessOutput{
		Created: model.CreatedEventReference{ID: created.ID, HTMLLink: created.HtmlLink},
		Event:   validated,
	}, nil
}

// Extract stops after validation.
func (uc *implUseCase) Extract(ctx context.Context, input event.ProcessInput) (event.ExtractOutput, error) {
	validated, resp, err := uc.extractAndValidate(ctx, input)
	if err != nil {
		return event.ExtractOutput{}, err
	}
	return event.ExtractOutput{
		Event:    validated,
		Reply:    resp.Text(),
		Provider: resp.ProviderName,
		Model:    resp.ModelName,
	}, nil
}

func (uc *implUseCase) extractAndValidate(ctx context.Context, input event.ProcessInput) (model.ValidatedEvent, *llmprovider.Response, error) {
	if _, err := os.Stat(input.ImagePath); err != nil {
		uc.l.Warnf(ctx, "event.usecase: image not found: %s", input.ImagePath)
		return model.ValidatedEvent{}, nil, fmt.Errorf("%w: %w", event.ErrImageRead, err)
	}

	uc.l.Infof(ctx, "event.usecase: encoding image %s", input.ImagePath)
	payload, err := imagefile.Encode(input.ImagePath)
	if err != nil {
		return model.ValidatedEvent{}, nil, fmt.Errorf("%w: %w", event.ErrImageRead, err)
	}

	uc.l.Infof(ctx, "event.usecase: extracting event details (%s, %d bytes)", payload.MIMEType, payload.Size)
	reply, resp, err := uc.extract(ctx, payload)
	if err != nil {
		uc.l.Errorf(ctx, "event.usecase: extraction failed: %v", err)
		return model.ValidatedEvent{}, nil, err
	}

	draft, err := parseReply(reply)
	if err != nil {
		uc.l.Warnf(ctx, "event.usecase: could not parse model reply: %v; reply=%q", err, reply)
		return model.ValidatedEvent{}, nil, err
	}

	uc.l.Infof(ctx, "event.usecase: validating event details")
	validated, err := validateDraft(draft, uc.dateMath)
	if err != nil {
		var ve *event.ValidationError
		if errors.As(err, &ve) {
			uc.l.Warnf(ctx, "event.usecase: validation failed on %s (%s)", ve.Field, ve.Reason)
		}
		return model.ValidatedEvent{}, nil, err
	}

	return validated, resp, nil
}
