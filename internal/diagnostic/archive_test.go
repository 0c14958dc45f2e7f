package diagnostic_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"surveytrace/internal/diagnostic"
	"surveytrace/internal/logging"
	"surveytrace/internal/telemetry"
)

func TestArchiveRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	archive, err := diagnostic.OpenArchive(path, logging.NewTestLogger())
	require.NoError(t, err)

	at := time.Date(2025, 3, 14, 9, 26, 53, 589*int(time.Millisecond), time.UTC)
	archive.Record(telemetry.NewClickEvent(1, at, "2"))
	archive.Record(telemetry.NewHoverEvent(2, at.Add(time.Second), "3", 900*time.Millisecond))

	recs, err := archive.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Newest first.
	assert.Equal(t, "hover", recs[0].EventType)
	assert.Equal(t, 2, recs[0].QuestionID)
	assert.Equal(t, "click", recs[1].EventType)
	assert.Equal(t, "2025-03-14T09:26:53.589", recs[1].Timestamp)
	assert.Contains(t, recs[1].PayLoad, `"selectedOptionId":"2"`)
}

func TestArchiveDescribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	archive, err := diagnostic.OpenArchive(path, logging.NewTestLogger())
	require.NoError(t, err)

	tr := telemetry.NewTranslator(language.Korean)

	rec := diagnostic.EventLogRecord{
		EventType: "click",
		Timestamp: "2025-03-14T09:26:53.589",
		PayLoad:   `{"click":{"selectedOptionId":"2","clickedAt":1700000000000}}`,
	}
	assert.Equal(t, "2025-03-14T09:26:53.589 클릭 2", archive.Describe(rec, tr))

	t.Run("corrupt stored payload", func(t *testing.T) {
		rec.PayLoad = "oops"
		assert.Equal(t, "2025-03-14T09:26:53.589 클릭 정보 없음", archive.Describe(rec, tr))
	})
}

func TestOpenArchiveBadPath(t *testing.T) {
	_, err := diagnostic.OpenArchive(filepath.Join(t.TempDir(), "missing", "nested", "archive.db"), logging.NewTestLogger())
	assert.Error(t, err)
}
