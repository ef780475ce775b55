package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/queue"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

func testServer() *Server {
	cfg := &voiceconfig.Snapshot{Port: 8888, DefaultVoiceID: "default-voice"}
	q := queue.New(4)
	return New(cfg, q, engine.OSTTS)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)
	return rec
}

func TestNotifyDefaultsAndEnqueues(t *testing.T) {
	s := testServer()
	rec := postJSON(t, s, "/notify", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if s.q.Stats().TotalEnqueued != 1 {
		t.Errorf("expected 1 item enqueued, got %d", s.q.Stats().TotalEnqueued)
	}
}

func TestNotifyVoiceDisabledSkipsQueue(t *testing.T) {
	s := testServer()
	rec := postJSON(t, s, "/notify", map[string]any{"voice_enabled": false, "message": "hi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if s.q.Stats().TotalEnqueued != 0 {
		t.Errorf("expected no enqueue when voice disabled, got %d", s.q.Stats().TotalEnqueued)
	}
}

func TestNotifyInvalidBodyType(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNotifyMessageTooLongRejected(t *testing.T) {
	s := testServer()
	longMsg := strings.Repeat("a", 501)
	rec := postJSON(t, s, "/notify", map[string]any{"message": longMsg})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp.Message != "Message too long" {
		t.Errorf("Message = %q, want %q", resp.Message, "Message too long")
	}
}

func TestPaiAliasEnqueues(t *testing.T) {
	s := testServer()
	rec := postJSON(t, s, "/pai", map[string]any{"title": "t", "message": "m"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if s.q.Stats().TotalEnqueued != 1 {
		t.Errorf("expected 1 item enqueued via /pai, got %d", s.q.Stats().TotalEnqueued)
	}
}

func TestHealthNeverFails(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal health response: %v", err)
	}
	if resp.Status != "healthy" || resp.SelectedLocalEngine != "os-tts" {
		t.Errorf("unexpected health response: %+v", resp)
	}
}

func TestOptionsReturnsNoContentWithCORSHeaders(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodOptions, "/notify", nil)
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost" {
		t.Errorf("missing/incorrect CORS header: %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRateLimitExceeded(t *testing.T) {
	s := testServer()
	var last *httptest.ResponseRecorder
	for i := 0; i < rateLimitBucketSize+1; i++ {
		last = postJSON(t, s, "/notify", map[string]any{"message": "hi"})
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after exceeding bucket size", last.Code)
	}
}

func TestVoiceIDPrecedenceOverVoiceName(t *testing.T) {
	s := testServer()
	rec := postJSON(t, s, "/notify", map[string]any{
		"message":    "hi",
		"voice_id":   "id-1",
		"voice_name": "name-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	item, err := s.q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue() error = %v", err)
	}
	ni, ok := item.Payload.(NotifyItem)
	if !ok {
		t.Fatalf("unexpected payload type %T", item.Payload)
	}
	if ni.VoiceID != "id-1" {
		t.Errorf("VoiceID = %q, want %q (voice_id takes precedence)", ni.VoiceID, "id-1")
	}
}
