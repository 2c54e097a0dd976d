package event

import "snapcal/internal/model"

// ProcessInput names the image to read. The file is not removed.
type ProcessInput struct {
	ImagePath string
}

// ProcessOutput is the result of a successful run.
type ProcessOutput struct {
	Created model.CreatedEventReference
	Event   model.ValidatedEvent
}

// ExtractOutput is the validated event plus the reply it came from.
type ExtractOutput struct {
	Event    model.ValidatedEvent
	Reply    string
	Provider string
	Model    string
}
