package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saker-ai/speech-frames/internal/transport/speech/codec"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	encoder := codec.NewEncoder(codec.WithClock(codec.FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	return NewRouter(encoder, nil)
}

func postFrame(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/frames", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body=%s, want status ok", rec.Body.String())
	}
}

func TestEncodeConfigFrame(t *testing.T) {
	rec := postFrame(t, newTestRouter(), `{"kind":"config","session_id":"abc123","payload":{"lang":"en-US"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	want := "Path: speech.config\r\nX-RequestId: abc123\r\nX-Timestamp: 2024-01-01T00:00:00.000Z\r\nContent-Type: application/json\r\n\r\n{\"lang\":\"en-US\"}"
	if string(resp.Frame) != want {
		t.Fatalf("frame=%q, want %q", resp.Frame, want)
	}
	if resp.MessageType != "text" {
		t.Fatalf("message_type=%q, want text", resp.MessageType)
	}
	if resp.PayloadLength != len(`{"lang":"en-US"}`) {
		t.Fatalf("payload_length=%d", resp.PayloadLength)
	}
	if len(resp.Headers) != 4 || resp.Headers[0].Name != codec.HeaderPath {
		t.Fatalf("headers=%+v", resp.Headers)
	}
}

func TestEncodeAudioStartFrame(t *testing.T) {
	// "AQID" is base64 for 0x01 0x02 0x03.
	rec := postFrame(t, newTestRouter(), `{"kind":"audio_start","session_id":"s1","content_type":"audio/wav","audio":"AQID"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if resp.MessageType != "binary" {
		t.Fatalf("message_type=%q, want binary", resp.MessageType)
	}
	if resp.PayloadLength != 3 {
		t.Fatalf("payload_length=%d, want 3", resp.PayloadLength)
	}
	if len(resp.Frame) != 2+resp.HeaderLength+3 {
		t.Fatalf("frame length=%d, want %d", len(resp.Frame), 2+resp.HeaderLength+3)
	}
	if !bytes.Equal(resp.Frame[2+resp.HeaderLength:], []byte{1, 2, 3}) {
		t.Fatalf("frame payload=%v", resp.Frame[2+resp.HeaderLength:])
	}
}

func TestEncodeEndOfStreamFrame(t *testing.T) {
	rec := postFrame(t, newTestRouter(), `{"kind":"audio_chunk","session_id":"s1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if resp.PayloadLength != 0 || len(resp.Frame) != 2+resp.HeaderLength {
		t.Fatalf("resp=%+v, want empty payload", resp)
	}
	if len(resp.Headers) != 3 {
		t.Fatalf("headers=%d, want 3", len(resp.Headers))
	}
}

func TestEncodeBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{name: "invalid json", body: `{`, code: http.StatusBadRequest},
		{name: "missing kind", body: `{"session_id":"s1"}`, code: http.StatusBadRequest},
		{name: "unknown kind", body: `{"kind":"video","session_id":"s1"}`, code: http.StatusBadRequest},
		{name: "empty session", body: `{"kind":"audio_chunk"}`, code: http.StatusUnprocessableEntity, kind: "invariant"},
		{name: "missing content type", body: `{"kind":"audio_start","session_id":"s1"}`, code: http.StatusUnprocessableEntity, kind: "invariant"},
	}
	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postFrame(t, router, tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status=%d, want %d (body=%s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.kind == "" {
				return
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if resp.Kind != tt.kind {
				t.Fatalf("kind=%q, want %q", resp.Kind, tt.kind)
			}
		})
	}
}

func TestEncodeHeaderOverflow(t *testing.T) {
	body := `{"kind":"audio_chunk","session_id":"` + strings.Repeat("a", 70000) + `"}`
	rec := postFrame(t, newTestRouter(), body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rec.Body.String(), "header_overflow") {
		t.Fatalf("body=%s, want header_overflow", rec.Body.String())
	}
}
