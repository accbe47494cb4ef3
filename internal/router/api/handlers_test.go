package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ditef/router/internal/broker"
	"github.com/ditef/router/internal/queue"
	"github.com/ditef/router/internal/registry"
)

func newTestEngine(heartbeatTimeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	q := queue.New()
	reg := registry.New(q, heartbeatTimeout)
	b := broker.New(q, reg)

	engine := gin.New()
	New(b).Register(engine)
	return engine
}

// S1 — happy path over HTTP: run, get, set, the producer's response
// body is the worker's result.
func TestHandlers_HappyPath(t *testing.T) {
	engine := newTestEngine(time.Minute)

	runRecorder := httptest.NewRecorder()
	runDone := make(chan struct{})
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/task/run?taskType=T", strings.NewReader(`[42,1337]`))
		engine.ServeHTTP(runRecorder, req)
		close(runDone)
	}()

	time.Sleep(20 * time.Millisecond)

	getRecorder := httptest.NewRecorder()
	getReq := httptest.NewRequest(http.MethodGet, "/task/get?taskType=T", nil)
	getReq.Header.Set("Prefer", "wait=5")
	engine.ServeHTTP(getRecorder, getReq)

	require.Equal(t, http.StatusOK, getRecorder.Code)
	taskID := taskIDFrom(t, getRecorder.Body.String())
	assert.JSONEq(t, `{"taskType":"T","taskId":"`+taskID+`","payload":[42,1337]}`, getRecorder.Body.String())

	setRecorder := httptest.NewRecorder()
	setReq := httptest.NewRequest(http.MethodPost, "/result/set?taskId="+taskID, strings.NewReader(`1379`))
	engine.ServeHTTP(setRecorder, setReq)
	assert.Equal(t, http.StatusOK, setRecorder.Code)

	<-runDone
	assert.Equal(t, http.StatusOK, runRecorder.Code)
	assert.JSONEq(t, `1379`, runRecorder.Body.String())
}

// A GET with no queued work for the requested types waits out its budget
// and returns 204.
func TestHandlers_TaskGetNoWorkReturns204(t *testing.T) {
	engine := newTestEngine(time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/task/get?taskType=T", nil)
	req.Header.Set("Prefer", "wait=1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// S7 — malformed or missing Prefer header.
func TestHandlers_TaskGetMalformedPreferHeader(t *testing.T) {
	engine := newTestEngine(time.Minute)

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not_a_number", "wait=abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/task/get?taskType=T", nil)
			if tc.header != "" {
				req.Header.Set("Prefer", tc.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlers_TaskGetMissingTaskType(t *testing.T) {
	engine := newTestEngine(time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/task/get", nil)
	req.Header.Set("Prefer", "wait=1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_TaskRunMissingTaskType(t *testing.T) {
	engine := newTestEngine(time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/task/run", strings.NewReader(`1`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_HeartbeatUnknownTaskID(t *testing.T) {
	engine := newTestEngine(time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/task/heartbeat?taskId=nonexistent", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_ResultSetUnknownTaskID(t *testing.T) {
	engine := newTestEngine(time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/result/set?taskId=nonexistent", strings.NewReader(`1`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// S6 — type selectivity over HTTP.
func TestHandlers_TypeSelectivity(t *testing.T) {
	engine := newTestEngine(time.Minute)

	go func() {
		req := httptest.NewRequest(http.MethodPost, "/task/run?taskType=A", strings.NewReader(`1`))
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}()
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/task/run?taskType=B", strings.NewReader(`2`))
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}()
	time.Sleep(20 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/task/get?taskType=B", nil)
	req.Header.Set("Prefer", "wait=5")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"taskType":"B"`)
	assert.Contains(t, rec.Body.String(), `"payload":2`)
}

// TestHandlers_TaskRunCancelledByClientDisconnect exercises the ctx ->
// Submit cancellation path directly through the handler, bypassing the
// need for a real client to hang up: httptest.NewRequest attaches a
// real (cancellable) context.Context to the request.
func TestHandlers_TaskRunCancelledByClientDisconnect(t *testing.T) {
	engine := newTestEngine(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/task/run?taskType=T", strings.NewReader(`1`)).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		engine.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after client disconnect")
	}
}

func taskIDFrom(t *testing.T, body string) string {
	t.Helper()
	const marker = `"taskId":"`
	i := strings.Index(body, marker)
	require.NotEqual(t, -1, i, "response missing taskId: %s", body)
	rest := body[i+len(marker):]
	return rest[:strings.Index(rest, `"`)]
}
