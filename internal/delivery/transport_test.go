package delivery_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveytrace/internal/delivery"
	"surveytrace/internal/logging"
	"surveytrace/internal/telemetry"
)

// collectorMock records the bodies POSTed to the event-logs endpoint.
type collectorMock struct {
	mu     sync.Mutex
	bodies []map[string]json.RawMessage
	status int
}

func (m *collectorMock) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.bodies = append(m.bodies, body)
		status := m.status
		m.mu.Unlock()
		if status == 0 {
			status = http.StatusAccepted
		}
		w.WriteHeader(status)
	}
}

func TestHTTPSubmitter(t *testing.T) {
	t.Run("posts the event to the event-logs endpoint", func(t *testing.T) {
		mock := &collectorMock{}
		mux := http.NewServeMux()
		mux.Handle("POST /api/event-logs", mock.handler())
		server := httptest.NewServer(mux)
		defer server.Close()

		submitter := delivery.NewHTTPSubmitter(server.URL, server.Client())
		ev := telemetry.NewClickEvent(3, time.Now(), "2")
		require.NoError(t, submitter.Submit(context.Background(), ev))

		require.Len(t, mock.bodies, 1)
		body := mock.bodies[0]
		assert.Contains(t, body, "questionId")
		assert.Contains(t, body, "eventType")
		assert.Contains(t, body, "timestamp_ms")
		assert.Contains(t, body, "payLoad")
		assert.JSONEq(t, `3`, string(body["questionId"]))
		assert.JSONEq(t, `"click"`, string(body["eventType"]))
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		mock := &collectorMock{status: http.StatusInternalServerError}
		server := httptest.NewServer(mock.handler())
		defer server.Close()

		submitter := delivery.NewHTTPSubmitter(server.URL, server.Client())
		err := submitter.Submit(context.Background(), telemetry.NewClickEvent(3, time.Now(), "2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		submitter := delivery.NewHTTPSubmitter("http://127.0.0.1:1", nil)
		err := submitter.Submit(context.Background(), telemetry.NewClickEvent(3, time.Now(), "2"))
		assert.Error(t, err)
	})
}

func TestEngineDeliversInOrderOverHTTP(t *testing.T) {
	mock := &collectorMock{}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	submitter := delivery.NewHTTPSubmitter(server.URL, server.Client())
	engine := delivery.NewEngine(submitter, logging.NewTestLogger())

	at := time.Now()
	engine.Enqueue(telemetry.NewClickEvent(1, at, "1"))
	engine.Enqueue(telemetry.NewSelectionChangeEvent(1, at, "1", "2"))
	engine.Enqueue(telemetry.NewClickEvent(1, at, "2"))
	engine.Wait()

	require.Len(t, mock.bodies, 3)
	assert.JSONEq(t, `"click"`, string(mock.bodies[0]["eventType"]))
	assert.JSONEq(t, `"selection_change"`, string(mock.bodies[1]["eventType"]))
	assert.JSONEq(t, `"click"`, string(mock.bodies[2]["eventType"]))
}
