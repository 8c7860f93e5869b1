package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/reviewlens/internal/model"
)

// mockAnalyzer fails products listed in failures, succeeds otherwise.
type mockAnalyzer struct {
	failures map[string]bool
}

func (m *mockAnalyzer) Analyze(_ context.Context, productID string) (*model.AnalysisResult, error) {
	if m.failures[productID] {
		return nil, errors.New("upstream unavailable")
	}
	return &model.AnalysisResult{ProductID: productID}, nil
}

func TestProcessProducts(t *testing.T) {
	b := NewBatchProcessor(&mockAnalyzer{}, 3)
	ids := []string{"B000000001", "B000000002", "B000000003"}

	results := b.ProcessProducts(context.Background(), ids)
	if len(results) != len(ids) {
		t.Fatalf("results = %d, want %d", len(results), len(ids))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("%s: unexpected error %v", r.ProductID, r.Error)
		}
		if r.Report == nil || r.Report.ProductID != r.ProductID {
			t.Errorf("%s: report mismatch %+v", r.ProductID, r.Report)
		}
		seen[r.ProductID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("missing result for %s", id)
		}
	}
}

func TestProcessProductsPartialFailure(t *testing.T) {
	b := NewBatchProcessor(&mockAnalyzer{failures: map[string]bool{"B000000BAD": true}}, 2)

	results := b.ProcessProducts(context.Background(), []string{"B000000001", "B000000BAD", "B000000002"})
	var ok, failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			ok++
		}
	}
	if ok != 2 || failed != 1 {
		t.Errorf("ok/failed = %d/%d, want 2/1", ok, failed)
	}
}

// A batch much larger than the pool's channel buffers must still complete;
// submission and result collection run concurrently.
func TestProcessProductsLargerThanPoolBuffers(t *testing.T) {
	b := NewBatchProcessor(&mockAnalyzer{}, 1)

	var ids []string
	for i := 0; i < 25; i++ {
		ids = append(ids, fmt.Sprintf("B%09d", i))
	}

	done := make(chan []*AnalyzeResult, 1)
	go func() {
		done <- b.ProcessProducts(context.Background(), ids)
	}()

	select {
	case results := <-done:
		if len(results) != len(ids) {
			t.Fatalf("results = %d, want %d", len(results), len(ids))
		}
		seen := map[string]bool{}
		for _, r := range results {
			if r.Error != nil {
				t.Errorf("%s: unexpected error %v", r.ProductID, r.Error)
			}
			seen[r.ProductID] = true
		}
		for _, id := range ids {
			if !seen[id] {
				t.Errorf("missing result for %s", id)
			}
		}
	case <-time.After(10 * time.Second):
		t.Fatal("batch did not complete; submission is blocking result collection")
	}
}

func TestProcessProductsEmpty(t *testing.T) {
	b := NewBatchProcessor(&mockAnalyzer{}, 2)
	if results := b.ProcessProducts(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestReadProductIDsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.txt")
	content := "# watchlist\nB000000001\n\nB000000002\nB000000001\n  B000000003  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadProductIDsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B000000001", "B000000002", "B000000003"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestReadProductIDsMissingFile(t *testing.T) {
	if _, err := ReadProductIDsFromFile("/nonexistent/products.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
