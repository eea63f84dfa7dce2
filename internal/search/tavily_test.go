package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkarpov/angler/internal/model"
)

func TestTavily_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["api_key"] != "test-key" {
			t.Errorf("expected api_key test-key, got %v", body["api_key"])
		}
		if body["query"] != "tesla guidance" {
			t.Errorf("unexpected query: %v", body["query"])
		}

		resp := map[string]any{
			"results": []map[string]string{
				{"title": "Guidance 2026", "url": "https://example.com/g", "content": "Tesla raised guidance."},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tv := NewTavilyWithClient("test-key", &http.Client{Timeout: 5 * time.Second}, server.URL)

	results, err := tv.Search(context.Background(), "tesla guidance", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Guidance 2026" || results[0].Snippet != "Tesla raised guidance." {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestTavily_Search_MissingKey(t *testing.T) {
	tv := NewTavily("")
	if _, err := tv.Search(context.Background(), "tesla", 5); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestBrave_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("expected subscription token, got %q", got)
		}
		resp := map[string]any{
			"web": map[string]any{
				"results": []map[string]string{
					{"title": "Brave Hit", "url": "https://example.com/b", "description": "desc"},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	b := NewBraveWithClient("test-key", &http.Client{Timeout: 5 * time.Second}, server.URL)

	results, err := b.Search(context.Background(), "tesla", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Brave Hit" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		apiKey   string
		wantErr  bool
		wantName string
	}{
		{provider: "", wantName: "duckduckgo"},
		{provider: "duckduckgo", wantName: "duckduckgo"},
		{provider: "ddg", wantName: "duckduckgo"},
		{provider: "tavily", apiKey: "k", wantName: "tavily"},
		{provider: "brave", apiKey: "k", wantName: "brave"},
		{provider: "bing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewProvider(model.SearchConfig{Provider: tt.provider, APIKey: tt.apiKey})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("expected provider %q, got %q", tt.wantName, p.Name())
			}
		})
	}
}
