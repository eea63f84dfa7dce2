package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkarpov/angler/internal/model"
)

// ResearchFunc runs one research query end to end. The pipeline never fails
// outright: plan/synthesis errors arrive inside the report body.
type ResearchFunc func(ctx context.Context, query string) *model.Report

// ResearchJob researches a single query
type ResearchJob struct {
	Query string
	Run   ResearchFunc
}

// Execute runs the research job
func (j *ResearchJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return &ResearchResult{Query: j.Query, Err: ctx.Err()}
	default:
	}
	return &ResearchResult{
		Query:  j.Query,
		Report: j.Run(ctx, j.Query),
	}
}

// ResearchResult carries the outcome of one query
type ResearchResult struct {
	Query  string
	Report *model.Report
	Err    error
}

// GetError returns the job-level error, if any
func (r *ResearchResult) GetError() error {
	return r.Err
}

// BatchProcessor researches multiple queries concurrently
type BatchProcessor struct {
	run         ResearchFunc
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(run ResearchFunc, concurrency int) *BatchProcessor {
	return &BatchProcessor{run: run, concurrency: concurrency}
}

// ProcessQueries researches all queries using the worker pool
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*ResearchResult {
	if len(queries) == 0 {
		return []*ResearchResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, q := range queries {
		pool.Submit(&ResearchJob{Query: q, Run: b.run})
	}

	results := pool.Wait()

	researchResults := make([]*ResearchResult, len(results))
	for i, result := range results {
		researchResults[i] = result.(*ResearchResult)
	}
	return researchResults
}

// ProcessFile reads queries from a file (one per line) and researches them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ResearchResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file, one per line, skipping
// blanks, comments, and duplicates.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return queries, nil
}
