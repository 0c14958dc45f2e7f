package diagnostic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"surveytrace/internal/diagnostic"
	"surveytrace/internal/logging"
	"surveytrace/internal/telemetry"
)

func TestDescribePayload(t *testing.T) {
	tr := telemetry.NewTranslator(language.Korean)
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	testCases := []struct {
		name     string
		event    telemetry.Event
		expected string
	}{
		{
			name:     "hover",
			event:    telemetry.NewHoverEvent(1, at, "2", 1500*time.Millisecond),
			expected: "2 (1초 500ms)",
		},
		{
			name:     "selection change",
			event:    telemetry.NewSelectionChangeEvent(1, at, "1", "3"),
			expected: "1 → 3",
		},
		{
			name:     "idle period",
			event:    telemetry.NewIdlePeriodEvent(1, at, at.Add(-3*time.Second)),
			expected: "3초",
		},
		{
			name:     "question time",
			event:    telemetry.NewQuestionTimeEvent(1, at.Add(-750*time.Millisecond), at),
			expected: "750ms",
		},
		{
			name:     "click",
			event:    telemetry.NewClickEvent(1, at, "4"),
			expected: "4",
		},
		{
			name:     "empty payload falls back to not available",
			event:    telemetry.Event{EventType: telemetry.EventTypeHover},
			expected: "정보 없음",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, diagnostic.DescribePayload(tc.event.Payload, tr))
		})
	}
}

func TestDescribePayloadText(t *testing.T) {
	tr := telemetry.NewTranslator(language.Korean)
	logger := logging.NewTestLogger()

	t.Run("well-formed text payload", func(t *testing.T) {
		raw := `{"click":{"selectedOptionId":"2","clickedAt":1700000000000}}`
		assert.Equal(t, "2", diagnostic.DescribePayloadText(raw, tr, logger))
	})

	t.Run("malformed text falls back instead of failing", func(t *testing.T) {
		assert.Equal(t, "정보 없음", diagnostic.DescribePayloadText("{not json", tr, logger))
	})

	t.Run("unknown variant falls back", func(t *testing.T) {
		assert.Equal(t, "정보 없음", diagnostic.DescribePayloadText(`{"scroll":{}}`, tr, logger))
	})
}
