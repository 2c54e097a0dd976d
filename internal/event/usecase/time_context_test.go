package usecase

import (
	"strings"
	"testing"
	"time"
)

func TestBuildDateContext(t *testing.T) {
	// 23:30 UTC on a Friday is already Saturday in Madrid.
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)

	got := buildDateContext(now, "Europe/Madrid")
	if !strings.Contains(got, "2024-03-16 (Saturday) in Europe/Madrid") {
		t.Errorf("unexpected context: %q", got)
	}

	got = buildDateContext(now, "Not/AZone")
	if !strings.Contains(got, "2024-03-15 (Friday) in UTC") {
		t.Errorf("expected UTC fallback, got %q", got)
	}
}

func TestBuildPrompt_DateContext(t *testing.T) {
	uc := &implUseCase{
		cfg: Config{DefaultTimezone: "Europe/Madrid"},
		now: func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) },
	}
	if strings.Contains(uc.buildPrompt(), "Today is") {
		t.Error("date context should be off by default")
	}

	uc.cfg.IncludeDateContext = true
	if !strings.Contains(uc.buildPrompt(), "Today is 2024-03-15 (Friday)") {
		t.Errorf("expected date context in prompt, got %q", uc.buildPrompt())
	}
}
