package tracker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"surveytrace/internal/telemetry"
)

// Recorder accepts events for delivery. *delivery.Engine satisfies it.
type Recorder interface {
	Enqueue(ev telemetry.Event)
}

// Flusher discards pending deliveries on unload. *delivery.Engine
// satisfies it.
type Flusher interface {
	Flush()
}

// Controller is the integration point exposed to the survey-taking UI.
// The UI forwards its discrete signals (pointer enter/leave, selection,
// pointer movement, page unload) as method calls; the controller keeps
// the core free of any DOM coupling.
//
// No failure in here ever propagates to the caller: a question whose
// backend id cannot be resolved silently disables tracking for that
// question's lifetime.
type Controller struct {
	recorder   Recorder
	flusher    Flusher
	translator *telemetry.Translator
	logger     *slog.Logger
	now        func() time.Time

	surveyID  string
	sessionID uuid.UUID

	mu      sync.Mutex
	enabled bool
	active  *session

	unloadOnce sync.Once
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSurveyID tags the controller with the survey being taken; used
// for diagnostics only, never sent on the wire.
func WithSurveyID(id string) ControllerOption {
	return func(c *Controller) {
		c.surveyID = id
	}
}

// WithSessionID sets the respondent session identifier instead of
// generating one.
func WithSessionID(id uuid.UUID) ControllerOption {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// WithTranslator overrides the label translator (default Korean).
func WithTranslator(t *telemetry.Translator) ControllerOption {
	return func(c *Controller) {
		c.translator = t
	}
}

// WithClock overrides the time source; intended for tests.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a tracking controller delivering through the
// given recorder. flusher may be the same value as recorder.
func NewController(recorder Recorder, flusher Flusher, logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		recorder:  recorder,
		flusher:   flusher,
		logger:    logger,
		now:       time.Now,
		surveyID:  "unknown",
		sessionID: uuid.New(),
		enabled:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.translator == nil {
		c.translator = telemetry.NewTranslator(language.Korean)
	}
	return c
}

// SessionID returns the respondent session identifier generated for
// this controller.
func (c *Controller) SessionID() uuid.UUID {
	return c.sessionID
}

// Enable turns event recording on. Controllers start enabled.
func (c *Controller) Enable() {
	c.mu.Lock()
	c.enabled = true
	c.mu.Unlock()
}

// Disable turns event recording off without tearing down session
// state.
func (c *Controller) Disable() {
	c.mu.Lock()
	c.enabled = false
	c.mu.Unlock()
}

// ActivateQuestion resets per-question state for a newly visible
// question, closing the previous question's session (and emitting its
// dwell time) first. options is the ordered option list supplied by
// the survey data provider; it is accepted for interface parity with
// the UI but tracking keys off the option ids the UI passes to the
// signal methods.
func (c *Controller) ActivateQuestion(questionID string, options []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.end()
	}
	c.active = newSession(questionID, c.translator, c.emit, c.now)

	if !c.active.ok {
		// Transient id-resolution race during initial load; tracking
		// stays off for this question, nothing is surfaced.
		c.logger.Debug("tracking disabled for unresolvable question id",
			slog.String("questionId", questionID),
			slog.String("surveyId", c.surveyID))
		return
	}
	c.logger.Debug("question activated",
		slog.Int("questionId", c.active.questionID),
		slog.Int("options", len(options)),
		slog.String("surveyId", c.surveyID),
		slog.String("sessionId", c.sessionID.String()))
}

// Deactivate closes the current question's session, emitting its
// question_time event. Safe to call with no active question.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.end()
		c.active = nil
	}
}

// OnEnter reports the pointer entering an option.
func (c *Controller) OnEnter(optionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.enter(optionID)
	}
}

// OnLeave reports the pointer leaving an option.
func (c *Controller) OnLeave(optionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.leave(optionID)
	}
}

// OnSelect reports an option being clicked/selected.
func (c *Controller) OnSelect(optionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.selectOption(optionID)
	}
}

// OnPointerMove reports pointer movement anywhere on the page while a
// question is active. An idle period spanning a question transition is
// attributed to the question active when the movement ending it is
// observed; this matches the per-question listener lifetime of the
// original and is a known ambiguity, not a resolved one.
func (c *Controller) OnPointerMove() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.pointerMove()
	}
}

// Unload handles the page-unload signal: pending deliveries are
// discarded, exactly once per controller lifetime. The current
// question's dwell time is not emitted here; unload handlers cannot
// reliably await anything, so there is no final flush-through.
func (c *Controller) Unload() {
	c.unloadOnce.Do(func() {
		c.flusher.Flush()
		c.logger.Debug("unload: pending telemetry discarded",
			slog.String("surveyId", c.surveyID))
	})
}

// emit hands a finished event to the delivery queue. Recording can be
// toggled off wholesale via Disable; individual filter suppression
// happened before this point.
func (c *Controller) emit(ev telemetry.Event) {
	if !c.enabled {
		return
	}
	c.recorder.Enqueue(ev)
}
