package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/pkarpov/angler/internal/model"
)

func fakeRun(calls *atomic.Int32) ResearchFunc {
	return func(ctx context.Context, query string) *model.Report {
		if calls != nil {
			calls.Add(1)
		}
		return &model.Report{Input: query, Markdown: "# Report: " + query}
	}
}

func TestBatchProcessor_ProcessQueries(t *testing.T) {
	var calls atomic.Int32
	b := NewBatchProcessor(fakeRun(&calls), 2)

	queries := []string{"TSLA", "AAPL", "quantum computing"}
	results := b.ProcessQueries(context.Background(), queries)

	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	if got := calls.Load(); int(got) != len(queries) {
		t.Errorf("expected %d research calls, got %d", len(queries), got)
	}

	byQuery := make(map[string]*ResearchResult)
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("query %q failed: %v", r.Query, r.Err)
		}
		byQuery[r.Query] = r
	}
	for _, q := range queries {
		r, ok := byQuery[q]
		if !ok {
			t.Errorf("missing result for %q", q)
			continue
		}
		if r.Report == nil || r.Report.Markdown == "" {
			t.Errorf("expected report for %q, got %+v", q, r.Report)
		}
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	b := NewBatchProcessor(fakeRun(nil), 2)

	results := b.ProcessQueries(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadQueriesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := `TSLA

# watchlist
AAPL
  quantum computing
TSLA
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	queries, err := ReadQueriesFromFile(path)
	if err != nil {
		t.Fatalf("ReadQueriesFromFile: %v", err)
	}

	// Blanks and comments skipped, whitespace trimmed, duplicate dropped
	want := []string{"TSLA", "AAPL", "quantum computing"}
	if len(queries) != len(want) {
		t.Fatalf("expected %d queries, got %v", len(want), queries)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Errorf("query %d: got %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(path, []byte("TSLA\nAAPL\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBatchProcessor(fakeRun(nil), 2)
	results, err := b.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFileMissing(t *testing.T) {
	b := NewBatchProcessor(fakeRun(nil), 2)
	if _, err := b.ProcessFile(context.Background(), "/nonexistent/queries.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
