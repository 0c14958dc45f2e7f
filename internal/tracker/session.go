// Package tracker wires survey UI signals to the signal filters and
// the delivery queue. It owns all per-question session state.
package tracker

import (
	"time"

	"surveytrace/internal/telemetry"
)

// Filtering thresholds. Fixed by design; reproduced here rather than
// made configurable so captured data stays comparable across
// deployments.
const (
	// MinHoverDuration is the noise floor below which a hover is
	// treated as accidental and discarded.
	MinHoverDuration = 500 * time.Millisecond

	// IdleThreshold is the minimum pointer-stillness span reported as
	// an idle period.
	IdleThreshold = 2500 * time.Millisecond
)

// session holds the working memory for one active question. It is
// created on question activation and discarded on deactivation; a
// session whose question id is unresolvable records nothing for its
// entire lifetime.
type session struct {
	questionID int
	ok         bool

	translator *telemetry.Translator
	emit       func(telemetry.Event)
	now        func() time.Time

	hoverStarts  map[string]time.Time
	lastSelected string
	startedAt    time.Time
	lastMove     time.Time
	ended        bool
}

func newSession(rawQuestionID string, translator *telemetry.Translator, emit func(telemetry.Event), now func() time.Time) *session {
	s := &session{
		translator:  translator,
		emit:        emit,
		now:         now,
		hoverStarts: make(map[string]time.Time),
	}
	s.questionID, s.ok = telemetry.ResolveQuestionID(rawQuestionID)
	if s.ok {
		start := now()
		s.startedAt = start
		s.lastMove = start
	}
	return s
}

// enter records the instant hovering began for an option, overwriting
// any stale entry left by out-of-order browser events.
func (s *session) enter(optionID string) {
	if !s.ok {
		return
	}
	s.hoverStarts[optionID] = s.now()
}

// leave closes an open hover. A leave without a matching enter is
// ignored; durations under the noise floor are discarded.
func (s *session) leave(optionID string) {
	if !s.ok {
		return
	}
	start, found := s.hoverStarts[optionID]
	if !found {
		return
	}
	delete(s.hoverStarts, optionID)

	end := s.now()
	if d := end.Sub(start); d >= MinHoverDuration {
		s.emit(telemetry.NewHoverEvent(s.questionID, end, s.translator.UserFacingLabel(optionID), d))
	}
}

// selectOption records a click, preceded by a selection_change when the
// selected option actually changed.
func (s *session) selectOption(optionID string) {
	if !s.ok {
		return
	}
	now := s.now()
	label := s.translator.UserFacingLabel(optionID)

	if s.lastSelected != "" && s.lastSelected != optionID {
		s.emit(telemetry.NewSelectionChangeEvent(s.questionID, now,
			s.translator.UserFacingLabel(s.lastSelected), label))
	}
	s.emit(telemetry.NewClickEvent(s.questionID, now, label))
	s.lastSelected = optionID
}

// pointerMove feeds the idle detector. Idle periods are reported
// retroactively, by the movement that ends them; a span still open
// when the session ends is never reported.
func (s *session) pointerMove() {
	if !s.ok {
		return
	}
	now := s.now()
	if gap := now.Sub(s.lastMove); gap > IdleThreshold {
		s.emit(telemetry.NewIdlePeriodEvent(s.questionID, now, s.lastMove))
	}
	s.lastMove = now
}

// end closes the session, emitting the question dwell time exactly
// once.
func (s *session) end() {
	if !s.ok || s.ended {
		return
	}
	s.ended = true
	s.emit(telemetry.NewQuestionTimeEvent(s.questionID, s.startedAt, s.now()))
}
