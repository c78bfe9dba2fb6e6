package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		allowed     []string
		origin      string
		method      string
		wantStatus  int
		wantOrigin  string
		wantCredits string
	}{
		{"wildcard", []string{"*"}, "http://app.test", http.MethodGet, http.StatusOK, "http://app.test", ""},
		{"explicit", []string{"http://app.test"}, "http://app.test", http.MethodGet, http.StatusOK, "http://app.test", "true"},
		{"denied", []string{"http://app.test"}, "http://evil.test", http.MethodGet, http.StatusOK, "", ""},
		{"preflight", []string{"*"}, "http://app.test", http.MethodOptions, http.StatusNoContent, "http://app.test", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/openai", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("expected origin %q, got %q", tt.wantOrigin, got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredits {
				t.Fatalf("expected credentials %q, got %q", tt.wantCredits, got)
			}
		})
	}
}
