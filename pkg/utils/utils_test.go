package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusServiceUnavailable, "down")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"down"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var dst struct {
		Action string `json:"action"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"start"}{"action":"reset"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err == nil {
		t.Fatal("expected error for trailing data")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"start"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("DecodeJSON err: %v", err)
	}
	if dst.Action != "start" {
		t.Fatalf("unexpected action %q", dst.Action)
	}
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)
	if err := SendSSEEvent(rec, rec, "message", map[string]string{"message": "hi"}); err != nil {
		t.Fatalf("SendSSEEvent err: %v", err)
	}

	if got := rec.Body.String(); got != "event: message\ndata: {\"message\":\"hi\"}\n\n" {
		t.Fatalf("unexpected sse frame %q", got)
	}
	if !rec.Flushed {
		t.Fatal("expected flush")
	}
}
