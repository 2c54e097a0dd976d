package usecase

import (
	"context"
	"fmt"

	"snapcal/internal/event"
	"snapcal/pkg/imagefile"
	"snapcal/pkg/llmprovider"
)

const (
	defaultMaxTokens = 1000
	defaultTimezone  = "Europe/Madrid"
)

const extractionPromptTemplate = `Please analyze this image and extract event details.
Return the information in the following JSON format:
{
    "summary": "Event title",
    "start": {"dateTime": "YYYY-MM-DDTHH:MM:SS", "timeZone": "%[1]s"},
    "end": {"dateTime": "YYYY-MM-DDTHH:MM:SS", "timeZone": "%[1]s"},
    "location": "Event location",
    "description": "Event description"
}
Ensure all dates and times are in ISO format with timezone information.`

func (uc *implUseCase) buildPrompt() string {
	prompt := fmt.Sprintf(extractionPromptTemplate, uc.cfg.DefaultTimezone)
	if uc.cfg.IncludeDateContext {
		prompt += buildDateContext(uc.now(), uc.cfg.DefaultTimezone)
	}
	return prompt
}

// extract sends the image to the vision model once and returns its reply text.
func (uc *implUseCase) extract(ctx context.Context, payload imagefile.Payload) (string, *llmprovider.Response, error) {
	req := &llmprovider.Request{
		Messages: []llmprovider.Message{{
			Role: "user",
			Parts: []llmprovider.Part{
				{Text: uc.buildPrompt()},
				{Image: &llmprovider.Image{MIMEType: payload.MIMEType, Data: payload.Data}},
			},
		}},
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
	}

	resp, err := uc.vision.GenerateContent(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", event.ErrExtraction, err)
	}

	reply := resp.Text()
	uc.l.Debugf(ctx, "event.usecase.extract: raw reply from %s/%s: %s", resp.ProviderName, resp.ModelName, reply)
	return reply, resp, nil
}
