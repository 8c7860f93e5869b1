package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Analyzer runs a full analysis for one product identifier.
type Analyzer interface {
	Analyze(ctx context.Context, productID string) (*model.AnalysisResult, error)
}

// AnalyzeJob analyzes one product.
type AnalyzeJob struct {
	ProductID string
	Analyzer  Analyzer
}

// Execute runs the analysis.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.Analyze(ctx, j.ProductID)
	return &AnalyzeResult{ProductID: j.ProductID, Report: report, Error: err}
}

// AnalyzeResult is the outcome for one product in a batch.
type AnalyzeResult struct {
	ProductID string
	Report    *model.AnalysisResult
	Error     error
}

// GetError returns the job error, if any.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many products concurrently. One product failing
// never aborts the rest of the batch.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// ProcessProducts analyzes the given product ids concurrently.
func (b *BatchProcessor) ProcessProducts(_ context.Context, productIDs []string) []*AnalyzeResult {
	if len(productIDs) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit from a separate goroutine and drain below; a batch larger than
	// the pool's channel buffers would otherwise wedge the submit loop.
	go func() {
		for _, id := range productIDs {
			pool.Submit(&AnalyzeJob{ProductID: id, Analyzer: b.analyzer})
		}
		pool.Close()
	}()

	out := make([]*AnalyzeResult, 0, len(productIDs))
	for r := range pool.Results() {
		out = append(out, r.(*AnalyzeResult))
	}
	return out
}

// ProcessFile reads product ids from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	ids, err := ReadProductIDsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read product ids: %w", err)
	}
	return b.ProcessProducts(ctx, ids), nil
}

// ReadProductIDsFromFile reads one product id per line, skipping blanks and
// '#' comments, deduplicating while preserving order.
func ReadProductIDsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			ids = append(ids, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return ids, nil
}
