// Package collector implements the development collector stub: an HTTP
// intake for the event submission contract plus a recent-events view
// for operators. It validates shape and keeps a short-lived in-memory
// window; durable storage and aggregation belong to the real backend.
package collector

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"surveytrace/internal/diagnostic"
	"surveytrace/internal/telemetry"
)

const (
	msgEventAdded     = "Event log added successfully"
	errInvalidRequest = "Invalid request"
)

// ReceivedEvent is one event as accepted by the intake endpoint. The
// payload is kept as raw JSON, the way the backend stores it as text.
type ReceivedEvent struct {
	QuestionID int             `json:"questionId"`
	EventType  string          `json:"eventType"`
	Timestamp  string          `json:"timestamp_ms"`
	PayLoad    json.RawMessage `json:"payLoad"`
	ReceivedAt time.Time       `json:"receivedAt"`

	seq int64
}

// Handler serves the collector endpoints.
type Handler struct {
	logger     *slog.Logger
	cache      *RecentCache
	translator *telemetry.Translator
}

// NewHandler creates a collector handler.
func NewHandler(logger *slog.Logger, cache *RecentCache, translator *telemetry.Translator) *Handler {
	return &Handler{
		logger:     logger,
		cache:      cache,
		translator: translator,
	}
}

// Register mounts the collector routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/api/event-logs", h.CreateEventLog)
	app.Get("/api/event-logs/recent", h.RecentEventLogs)
	app.Get("/health", h.Health)
}

// CreateEventLog accepts one event submission.
func (h *Handler) CreateEventLog(c *fiber.Ctx) error {
	var params ReceivedEvent
	if err := c.BodyParser(&params); err != nil {
		h.logger.Debug("failed to parse event log request", slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidRequest,
			"code":  "INVALID_REQUEST",
		})
	}

	if params.QuestionID <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "questionId must be a positive integer",
			"code":  "INVALID_QUESTION_ID",
		})
	}
	if !telemetry.KnownEventType(params.EventType) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown event type: " + params.EventType,
			"code":  "UNKNOWN_EVENT_TYPE",
		})
	}
	if err := validatePayload(params.EventType, params.PayLoad); err != nil {
		h.logger.Debug("rejected event payload",
			slog.String("eventType", params.EventType),
			slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "INVALID_PAYLOAD",
		})
	}

	params.ReceivedAt = time.Now().UTC()
	h.cache.Add(params)

	h.logger.Info("received event log",
		slog.Int("questionId", params.QuestionID),
		slog.String("event", h.translator.EventTypeName(telemetry.EventType(params.EventType))),
		slog.String("detail", diagnostic.DescribePayloadText(string(params.PayLoad), h.translator, h.logger)),
		slog.String("at", params.Timestamp))

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"message": msgEventAdded,
		"status":  http.StatusAccepted,
	})
}

// RecentEventLogs returns the events received within the cache window,
// newest first.
func (h *Handler) RecentEventLogs(c *fiber.Ctx) error {
	events := h.cache.Recent()
	return c.JSON(fiber.Map{
		"count":  len(events),
		"events": events,
	})
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// validatePayload checks that the payload's populated variant matches
// the declared event type.
func validatePayload(eventType string, raw json.RawMessage) error {
	var p telemetry.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fiber.NewError(http.StatusBadRequest, "payload is not valid JSON")
	}

	var matched bool
	switch telemetry.EventType(eventType) {
	case telemetry.EventTypeHover:
		matched = p.Hover != nil
	case telemetry.EventTypeSelectionChange:
		matched = p.SelectionChange != nil
	case telemetry.EventTypeIdlePeriod:
		matched = p.IdlePeriod != nil
	case telemetry.EventTypeQuestionTime:
		matched = p.QuestionTime != nil
	case telemetry.EventTypeClick:
		matched = p.Click != nil
	}
	if !matched {
		return fiber.NewError(http.StatusBadRequest, "payload does not match event type "+eventType)
	}
	return nil
}
