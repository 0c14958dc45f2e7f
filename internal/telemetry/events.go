// Package telemetry defines the behavioral event taxonomy and the wire
// shape accepted by the collector endpoint.
package telemetry

import "time"

// EventType identifies one of the five observed behavior kinds.
type EventType string

const (
	EventTypeHover           EventType = "hover"
	EventTypeSelectionChange EventType = "selection_change"
	EventTypeIdlePeriod      EventType = "idle_period"
	EventTypeQuestionTime    EventType = "question_time"
	EventTypeClick           EventType = "click"
)

// KnownEventType reports whether s names one of the taxonomy tags.
func KnownEventType(s string) bool {
	switch EventType(s) {
	case EventTypeHover, EventTypeSelectionChange, EventTypeIdlePeriod,
		EventTypeQuestionTime, EventTypeClick:
		return true
	}
	return false
}

// HoverData records an option hovered continuously for at least the
// minimum threshold.
type HoverData struct {
	OptionID string `json:"optionId"`
	Duration int64  `json:"duration"`
}

// SelectionChangeData records a switch between two different options.
type SelectionChangeData struct {
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedAt int64  `json:"changedAt"`
}

// IdlePeriodData records a pointer-stillness span, reported
// retroactively by the movement that ended it.
type IdlePeriodData struct {
	StartAt  int64 `json:"startAt"`
	Duration int64 `json:"duration"`
}

// QuestionTimeData records the total time a question was active.
type QuestionTimeData struct {
	StartAt  int64 `json:"startAt"`
	EndAt    int64 `json:"endAt"`
	Duration int64 `json:"duration"`
}

// ClickData records an option selection.
type ClickData struct {
	SelectedOptionID string `json:"selectedOptionId"`
	ClickedAt        int64  `json:"clickedAt"`
}

// Payload is the tagged union carried by an Event; exactly one variant
// is populated, matching the event type.
type Payload struct {
	Hover           *HoverData           `json:"hover,omitempty"`
	SelectionChange *SelectionChangeData `json:"selection_change,omitempty"`
	IdlePeriod      *IdlePeriodData      `json:"idle_period,omitempty"`
	QuestionTime    *QuestionTimeData    `json:"question_time,omitempty"`
	Click           *ClickData           `json:"click,omitempty"`
}

// Event is one recorded behavior occurrence in the shape the collector
// accepts. Timestamps on the wire use the backend's DATETIME(6)-style
// format, see FormatTimestamp.
type Event struct {
	QuestionID int       `json:"questionId"`
	EventType  EventType `json:"eventType"`
	Timestamp  string    `json:"timestamp_ms"`
	Payload    Payload   `json:"payLoad"`
}

// FormatTimestamp renders t as an ISO-8601 string with millisecond
// precision and no timezone suffix, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000")
}

// NewHoverEvent builds a hover event for an option held for d.
func NewHoverEvent(questionID int, at time.Time, optionLabel string, d time.Duration) Event {
	return Event{
		QuestionID: questionID,
		EventType:  EventTypeHover,
		Timestamp:  FormatTimestamp(at),
		Payload: Payload{Hover: &HoverData{
			OptionID: optionLabel,
			Duration: d.Milliseconds(),
		}},
	}
}

// NewSelectionChangeEvent builds a selection_change event for a switch
// from one option label to another at the given instant.
func NewSelectionChangeEvent(questionID int, at time.Time, from, to string) Event {
	return Event{
		QuestionID: questionID,
		EventType:  EventTypeSelectionChange,
		Timestamp:  FormatTimestamp(at),
		Payload: Payload{SelectionChange: &SelectionChangeData{
			From:      from,
			To:        to,
			ChangedAt: at.UnixMilli(),
		}},
	}
}

// NewIdlePeriodEvent builds an idle_period event for a stillness span
// that started at start and ended at the instant the pointer moved
// again.
func NewIdlePeriodEvent(questionID int, endedAt, start time.Time) Event {
	return Event{
		QuestionID: questionID,
		EventType:  EventTypeIdlePeriod,
		Timestamp:  FormatTimestamp(endedAt),
		Payload: Payload{IdlePeriod: &IdlePeriodData{
			StartAt:  start.UnixMilli(),
			Duration: endedAt.Sub(start).Milliseconds(),
		}},
	}
}

// NewQuestionTimeEvent builds a question_time event covering the span
// a question was active.
func NewQuestionTimeEvent(questionID int, start, end time.Time) Event {
	return Event{
		QuestionID: questionID,
		EventType:  EventTypeQuestionTime,
		Timestamp:  FormatTimestamp(end),
		Payload: Payload{QuestionTime: &QuestionTimeData{
			StartAt:  start.UnixMilli(),
			EndAt:    end.UnixMilli(),
			Duration: end.Sub(start).Milliseconds(),
		}},
	}
}

// NewClickEvent builds a click event for a selected option.
func NewClickEvent(questionID int, at time.Time, optionLabel string) Event {
	return Event{
		QuestionID: questionID,
		EventType:  EventTypeClick,
		Timestamp:  FormatTimestamp(at),
		Payload: Payload{Click: &ClickData{
			SelectedOptionID: optionLabel,
			ClickedAt:        at.UnixMilli(),
		}},
	}
}
