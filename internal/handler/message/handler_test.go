package message

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

type stubGenerator struct {
	got   timer.Request
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, req timer.Request) (string, error) {
	s.got = req
	return s.reply, s.err
}

func setupRouter(gen Generator) *chi.Mux {
	r := chi.NewRouter()
	New(gen).RegisterRoutes(r)
	return r
}

func post(t *testing.T, r http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateReturnsMessage(t *testing.T) {
	gen := &stubGenerator{reply: "You're doing great."}
	r := setupRouter(gen)

	resp := post(t, r, "/openai", []byte(`{"action":"asleep","time":125,"isRunning":false}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body timer.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Message != "You're doing great." || body.Error != "" {
		t.Fatalf("unexpected body %+v", body)
	}
	if gen.got.Action != timer.ActionAsleep || gen.got.Time != 125 || gen.got.IsRunning {
		t.Fatalf("unexpected request %+v", gen.got)
	}
}

func TestGenerateAliasRoute(t *testing.T) {
	r := setupRouter(&stubGenerator{reply: "ok"})
	if resp := post(t, r, "/messages", []byte(`{"action":"start","time":0,"isRunning":true}`)); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	r := setupRouter(nil)

	resp := post(t, r, "/openai", []byte(`{"action":"start","time":0,"isRunning":true}`))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}

	var body timer.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestGenerateFailure(t *testing.T) {
	r := setupRouter(&stubGenerator{err: errors.New("provider down")})

	if resp := post(t, r, "/openai", []byte(`{"action":"start","time":0,"isRunning":true}`)); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestGenerateBadRequests(t *testing.T) {
	r := setupRouter(&stubGenerator{reply: "ok"})

	for _, body := range []string{`not json`, `{"action":"start","time":-1}`} {
		if resp := post(t, r, "/openai", []byte(body)); resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}
}

func TestGenerateUnknownActionPassesThrough(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	r := setupRouter(gen)

	if resp := post(t, r, "/openai", []byte(`{"action":"dance","time":40,"isRunning":true}`)); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gen.got.Action != "dance" || !gen.got.IsRunning {
		t.Fatalf("unexpected request %+v", gen.got)
	}
}
