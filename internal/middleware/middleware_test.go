package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rewear/backend/internal/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("tea"))
	})
}

func TestLoggerRecordsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := middleware.Logger(zap.New(core))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/listings?q=denim", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Errorf("method = %v", fields["method"])
	}
	if fields["uri"] != "/api/listings?q=denim" {
		t.Errorf("uri = %v", fields["uri"])
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v (%T)", fields["status"], fields["status"])
	}
	if fields["bytes"] != int64(3) {
		t.Errorf("bytes = %v", fields["bytes"])
	}
}

func TestRateLimit(t *testing.T) {
	// 60/min gives a burst of 6 and refills one token per second.
	h := middleware.RateLimit(60)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 6; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusTeapot {
			t.Fatalf("request %d: status %d, want %d", i, code, http.StatusTeapot)
		}
	}
	if code := send("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("over burst: status %d, want 429", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusTeapot {
		t.Errorf("other client: status %d, want %d", code, http.StatusTeapot)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := middleware.RateLimit(0)(okHandler())
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
}
