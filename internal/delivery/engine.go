// Package delivery implements the ordered event queue and its
// strictly-sequential submission pipeline.
package delivery

import (
	"context"
	"log/slog"
	"sync"

	"surveytrace/internal/telemetry"
)

// Sink receives every event the engine processes, before its network
// submission is attempted. Sinks exist for operator visibility and
// carry no correctness contract.
type Sink interface {
	Record(ev telemetry.Event)
}

// Engine owns the process-wide delivery queue. Events are appended at
// the tail and drained strictly FIFO with at most one submission in
// flight; a failed submission is logged and dropped, never retried,
// and the cycle moves on to the next queued event.
//
// With a nil Submitter the engine runs dry: events still flow through
// the sinks but nothing is sent. This mirrors the original logger's
// server-logging toggle.
type Engine struct {
	submitter Submitter
	sinks     []Sink
	logger    *slog.Logger

	mu         sync.Mutex
	queue      []telemetry.Event
	processing bool

	wg sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink attaches a diagnostic sink. Sinks run in registration order.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, s)
	}
}

// NewEngine creates a delivery engine. submitter may be nil for
// dry-run operation.
func NewEngine(submitter Submitter, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		submitter: submitter,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enqueue appends ev to the tail of the queue and starts a delivery
// cycle if none is running. It never blocks on network I/O.
func (e *Engine) Enqueue(ev telemetry.Event) {
	e.mu.Lock()
	e.queue = append(e.queue, ev)
	if e.processing {
		e.mu.Unlock()
		return
	}
	e.processing = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.drain()
}

// drain is the delivery cycle: it removes the head element and submits
// it, one at a time, until the queue is empty. Only one drain runs at
// a time; the processing flag is the sole mutual-exclusion mechanism
// between cycles.
func (e *Engine) drain() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.processing = false
			e.mu.Unlock()
			return
		}
		ev := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.process(ev)
	}
}

func (e *Engine) process(ev telemetry.Event) {
	for _, s := range e.sinks {
		s.Record(ev)
	}
	if e.submitter == nil {
		return
	}
	if err := e.submitter.Submit(context.Background(), ev); err != nil {
		// Best-effort telemetry: the event is dropped, the cycle
		// continues with the next one.
		e.logger.Error("failed to deliver event",
			slog.Int("questionId", ev.QuestionID),
			slog.String("eventType", string(ev.EventType)),
			slog.Any("error", err))
	}
}

// Flush discards all pending (not-yet-dequeued) events without
// attempting delivery. A submission already in flight is unaffected.
// Called on page unload, where awaiting network I/O is not an option.
func (e *Engine) Flush() {
	e.mu.Lock()
	dropped := len(e.queue)
	e.queue = nil
	e.mu.Unlock()
	if dropped > 0 {
		e.logger.Debug("flushed pending events", slog.Int("dropped", dropped))
	}
}

// Pending returns the number of queued events awaiting delivery.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Wait blocks until the current delivery cycle, if any, has drained
// the queue and exited.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close flushes pending events and waits for the in-flight submission
// to finish.
func (e *Engine) Close() {
	e.Flush()
	e.wg.Wait()
}
