package diagnostic

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"surveytrace/internal/telemetry"
)

// EventLogRecord is one archived event. The payload is stored as text,
// matching how the collector side persists it.
type EventLogRecord struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	QuestionID int       `gorm:"index;not null"`
	EventType  string    `gorm:"index;not null"`
	Timestamp  string    `gorm:"column:timestamp_ms"`
	PayLoad    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

// Archive mirrors processed events into a local sqlite file so an
// operator can inspect a session after the fact. Write failures are
// logged and swallowed; the archive must never disturb delivery.
type Archive struct {
	db     *gorm.DB
	logger *slog.Logger
}

// OpenArchive opens (creating if needed) the archive database at path.
func OpenArchive(path string, logger *slog.Logger) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := db.AutoMigrate(&EventLogRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}
	return &Archive{db: db, logger: logger}, nil
}

// Record persists one event. Implements delivery.Sink.
func (a *Archive) Record(ev telemetry.Event) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		a.logger.Warn("failed to encode payload for archive", slog.Any("error", err))
		return
	}
	rec := EventLogRecord{
		QuestionID: ev.QuestionID,
		EventType:  string(ev.EventType),
		Timestamp:  ev.Timestamp,
		PayLoad:    string(payload),
	}
	if err := a.db.Create(&rec).Error; err != nil {
		a.logger.Warn("failed to archive event", slog.Any("error", err))
	}
}

// Recent returns up to limit archived events, newest first.
func (a *Archive) Recent(limit int) ([]EventLogRecord, error) {
	var recs []EventLogRecord
	if err := a.db.Order("id desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return recs, nil
}

// Describe renders an archived record for operator display.
func (a *Archive) Describe(rec EventLogRecord, tr *telemetry.Translator) string {
	return fmt.Sprintf("%s %s %s",
		rec.Timestamp,
		tr.EventTypeName(telemetry.EventType(rec.EventType)),
		DescribePayloadText(rec.PayLoad, tr, a.logger))
}
