package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	var syntaxErr *json.SyntaxError
	jsonErr := json.Unmarshal([]byte("not json"), &map[string]any{})

	parseErr := &ParseError{Reply: "not json", Err: jsonErr}
	wrappedParse := fmt.Errorf("extract: %w", parseErr)
	if !errors.Is(wrappedParse, ErrParse) {
		t.Errorf("ParseError must match ErrParse")
	}
	if errors.Is(wrappedParse, ErrValidation) {
		t.Errorf("ParseError must not match ErrValidation")
	}
	if !errors.As(wrappedParse, &syntaxErr) {
		t.Errorf("ParseError must unwrap to the decoder error")
	}
	var pe *ParseError
	if !errors.As(wrappedParse, &pe) || pe.Reply != "not json" {
		t.Errorf("ParseError must keep the raw reply")
	}

	valErr := &ValidationError{Field: "start.dateTime", Reason: ReasonMissing}
	if !errors.Is(valErr, ErrValidation) || errors.Is(valErr, ErrParse) {
		t.Errorf("ValidationError must only match ErrValidation")
	}
	if valErr.Error() != "extracted event is invalid: missing start.dateTime" {
		t.Errorf("unexpected message: %s", valErr.Error())
	}
}
