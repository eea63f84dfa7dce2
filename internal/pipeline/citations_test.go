package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCitationChecker_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alive":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	checker := NewCitationChecker(5*time.Second, 4, "angler-test/0.1")

	urls := []string{server.URL + "/alive", server.URL + "/gone"}
	results := checker.Check(context.Background(), urls)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Results keep input order
	if results[0].URL != urls[0] || results[1].URL != urls[1] {
		t.Errorf("results out of order: %+v", results)
	}
	if !results[0].IsAccessible || results[0].StatusCode != http.StatusOK {
		t.Errorf("expected /alive accessible: %+v", results[0])
	}
	if results[1].IsAccessible || results[1].StatusCode != http.StatusNotFound {
		t.Errorf("expected /gone inaccessible: %+v", results[1])
	}
}

func TestCitationChecker_Check_HeadFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewCitationChecker(5*time.Second, 2, "angler-test/0.1")

	results := checker.Check(context.Background(), []string{server.URL})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].IsAccessible {
		t.Errorf("expected GET fallback to mark URL accessible: %+v", results[0])
	}
}

func TestCitationChecker_Check_DeadHost(t *testing.T) {
	checker := NewCitationChecker(500*time.Millisecond, 2, "angler-test/0.1")

	results := checker.Check(context.Background(), []string{"http://127.0.0.1:1/unreachable"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].IsAccessible {
		t.Error("expected unreachable host marked inaccessible")
	}
	if results[0].Error == "" {
		t.Error("expected error recorded for unreachable host")
	}
}

func TestCitationChecker_Check_Empty(t *testing.T) {
	checker := NewCitationChecker(time.Second, 2, "angler-test/0.1")
	results := checker.Check(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}
