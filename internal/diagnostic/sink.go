// Package diagnostic provides operator-facing mirrors of the delivery
// pipeline: a console sink and a local sqlite archive. Output here is
// human-readable and carries no correctness contract.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"surveytrace/internal/telemetry"
)

// ConsoleSink logs a human-readable rendering of every processed event.
// Intended for development mode only.
type ConsoleSink struct {
	logger     *slog.Logger
	translator *telemetry.Translator
	surveyID   string
	sessionID  string
}

// NewConsoleSink creates a console sink tagged with the survey and
// respondent session being observed.
func NewConsoleSink(logger *slog.Logger, translator *telemetry.Translator, surveyID, sessionID string) *ConsoleSink {
	return &ConsoleSink{
		logger:     logger,
		translator: translator,
		surveyID:   surveyID,
		sessionID:  sessionID,
	}
}

// Record logs the event with its translated type name and payload
// summary.
func (s *ConsoleSink) Record(ev telemetry.Event) {
	s.logger.Info("captured event",
		slog.String("surveyId", s.surveyID),
		slog.String("sessionId", s.sessionID),
		slog.Int("questionId", ev.QuestionID),
		slog.String("event", s.translator.EventTypeName(ev.EventType)),
		slog.String("detail", DescribePayload(ev.Payload, s.translator)),
		slog.String("at", ev.Timestamp))
}

// DescribePayload renders the populated payload variant for operator
// display. An empty or unrecognized payload yields the not-available
// fallback.
func DescribePayload(p telemetry.Payload, tr *telemetry.Translator) string {
	switch {
	case p.Hover != nil:
		return fmt.Sprintf("%s (%s)", p.Hover.OptionID, tr.FormatDuration(p.Hover.Duration))
	case p.SelectionChange != nil:
		return fmt.Sprintf("%s → %s", p.SelectionChange.From, p.SelectionChange.To)
	case p.IdlePeriod != nil:
		return tr.FormatDuration(p.IdlePeriod.Duration)
	case p.QuestionTime != nil:
		return tr.FormatDuration(p.QuestionTime.Duration)
	case p.Click != nil:
		return p.Click.SelectedOptionID
	}
	return tr.NotAvailable()
}

// DescribePayloadText renders a payload that was serialized as text,
// as stored in the archive. A payload that fails to parse is reported
// as not available rather than surfacing an error.
func DescribePayloadText(raw string, tr *telemetry.Translator, logger *slog.Logger) string {
	var p telemetry.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logger.Warn("failed to parse archived payload", slog.Any("error", err))
		return tr.NotAvailable()
	}
	return DescribePayload(p, tr)
}
