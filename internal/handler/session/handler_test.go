package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	sessionService "github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
)

func setupRouter() (*chi.Mux, *sessionService.Service) {
	svc := sessionService.NewService(nil, prompt.Default(), sessionService.Config{})
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, svc
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) sessionService.Snapshot {
	t.Helper()
	resp := do(r, http.MethodPost, "/sessions", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var snap sessionService.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	return snap
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter()
	snap := createSession(t, r)

	if snap.SessionID == "" {
		t.Fatal("expected session id")
	}
	if snap.Display != "00:00" || snap.Running {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestActionStartsTimer(t *testing.T) {
	r, svc := setupRouter()
	snap := createSession(t, r)

	resp := do(r, http.MethodPost, "/sessions/"+snap.SessionID+"/actions", []byte(`{"action":"start"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	svc.TickAll()
	resp = do(r, http.MethodGet, "/sessions/"+snap.SessionID, nil)
	var got sessionService.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Running || got.Elapsed != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestActionUnknown(t *testing.T) {
	r, _ := setupRouter()
	snap := createSession(t, r)

	for _, action := range []string{"dance", "running", "idle"} {
		resp := do(r, http.MethodPost, "/sessions/"+snap.SessionID+"/actions", []byte(`{"action":"`+action+`"}`))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("action %s: expected 400, got %d", action, resp.Code)
		}
	}
}

func TestActionMissingSession(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodPost, "/sessions/missing/actions", []byte(`{"action":"start"}`))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	r, _ := setupRouter()
	snap := createSession(t, r)

	if resp := do(r, http.MethodDelete, "/sessions/"+snap.SessionID, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/sessions/"+snap.SessionID, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
