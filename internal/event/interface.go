package event

import "context"

// UseCase turns an event notice image into a calendar entry.
type UseCase interface {
	// Process runs encode, extract, parse, validate, authorize and create, stopping at the first failure.
	Process(ctx context.Context, input ProcessInput) (ProcessOutput, error)

	// Extract runs the pipeline up to validation without touching the calendar.
	Extract(ctx context.Context, input ProcessInput) (ExtractOutput, error)
}
