package internal_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveytrace/internal"
	"surveytrace/internal/config"
	"surveytrace/internal/diagnostic"
	"surveytrace/internal/logging"
)

func testConfig(t *testing.T, collectorURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:          "surveytrace",
		Environment:      config.Test,
		LogLevel:         config.LogLevelError,
		Locale:           config.LocaleKorean,
		CollectorBaseURL: collectorURL,
		ServerLogging:    true,
		StoragePath:      t.TempDir(),
		ArchiveEnabled:   true,
	}
}

func TestApplicationEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EventType string `json:"eventType"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		received = append(received, body.EventType)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	app, err := internal.NewAppWithConfig(cfg, "survey-1")
	require.NoError(t, err)

	app.Controller.ActivateQuestion("1", []string{"option_0", "option_1"})
	app.Controller.OnSelect("option_0")
	app.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"click", "question_time"}, received)

	// The archive mirrored both processed events.
	archive, err := diagnostic.OpenArchive(cfg.GetArchivePath(), logging.NewTestLogger())
	require.NoError(t, err)
	recs, err := archive.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestApplicationDryRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("dry run must not submit events")
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.ServerLogging = false
	cfg.ArchiveEnabled = false

	app, err := internal.NewAppWithConfig(cfg, "survey-1")
	require.NoError(t, err)

	app.Controller.ActivateQuestion("1", nil)
	app.Controller.OnSelect("option_0")
	app.Shutdown()
}
