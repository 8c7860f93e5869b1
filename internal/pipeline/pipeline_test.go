package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ppiankov/reviewlens/internal/logging"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/source"
)

// scriptedAdapter serves canned responses per locale and counts calls.
type scriptedAdapter struct {
	responses map[string]*source.Response
	calls     int
}

func (a *scriptedAdapter) Name() string { return "scripted" }

func (a *scriptedAdapter) Fetch(_ context.Context, _, locale string, _ int) (*source.Response, error) {
	a.calls++
	if resp, ok := a.responses[locale]; ok {
		return resp, nil
	}
	return &source.Response{Success: false, Error: "no data", ErrorType: model.ErrorTypeEmptyResult}, nil
}

func usResponse() *source.Response {
	resp := &source.Response{
		Success: true,
		Product: map[string]any{"title": "Noise Cancelling Headphones", "average_rating": 4.3},
	}
	bodies := []struct {
		text   string
		rating float64
	}{
		{"Excellent sound quality, the noise cancellation is amazing on flights.", 5},
		{"Very comfortable for long sessions, battery life is impressive.", 5},
		{"Good value but the app is clunky and pairing is slow sometimes.", 4},
		{"Decent headphones, nothing special about the design.", 3},
		{"Terrible build quality, the hinge broke within two weeks.", 1},
		{"Disappointed with the microphone, callers say I sound muffled.", 2},
	}
	for i, b := range bodies {
		resp.Reviews = append(resp.Reviews, source.RawReview{
			"review_id":         fmt.Sprintf("r%d", i),
			"rating":            b.rating,
			"review_text":       b.text,
			"author":            fmt.Sprintf("Reader %c", 'A'+i),
			"verified_purchase": true,
			"helpful_votes":     3,
			"review_date":       fmt.Sprintf("2024-0%d-15", i+1),
		})
	}
	return resp
}

func testPipeline(t *testing.T, adapter source.Adapter, mutate func(*model.Config)) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Fetch.AdapterWait = 2 * time.Second
	cfg.Fetch.RequestBudget = 10 * time.Second
	cfg.Fetch.SyntheticFallback = false
	if mutate != nil {
		mutate(cfg)
	}
	log := logging.Nop()
	fetcher := source.NewFetcherWithAdapters(cfg, log, source.NewSyntheticAdapter(), adapter)
	return NewWithFetcher(cfg, log, fetcher)
}

func TestRunHappyPath(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{"US": usResponse()}}
	p := testPipeline(t, adapter, nil)

	res, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", Locale: "US"})
	if err != nil {
		t.Fatal(err)
	}

	if res.ReportID == "" {
		t.Error("missing report id")
	}
	if res.TotalReviews != 6 {
		t.Errorf("TotalReviews = %d, want 6", res.TotalReviews)
	}
	if res.AnalyzedReviews == 0 || res.AnalyzedReviews > res.TotalReviews {
		t.Errorf("AnalyzedReviews = %d out of bounds", res.AnalyzedReviews)
	}
	if res.SentimentDistribution[model.SentimentPositive] == 0 {
		t.Error("expected positive reviews in distribution")
	}
	if res.SentimentDistribution[model.SentimentNegative] == 0 {
		t.Error("expected negative reviews in distribution")
	}
	if len(res.Insights) == 0 {
		t.Error("expected insights")
	}
	if len(res.PartialFailures) != 0 {
		t.Errorf("unexpected degraded stages: %v", res.PartialFailures)
	}
	if res.Narrative != "" {
		t.Errorf("narrative should be empty with llm disabled, got %q", res.Narrative)
	}

	total := 0
	for _, n := range res.SentimentDistribution {
		total += n
	}
	if total != res.AnalyzedReviews {
		t.Errorf("sentiment distribution sums to %d, want %d", total, res.AnalyzedReviews)
	}
}

func TestRunInvalidProductID(t *testing.T) {
	p := testPipeline(t, &scriptedAdapter{}, nil)

	_, err := p.Run(context.Background(), Request{ProductID: "not-an-asin"})
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if aerr.Report.ErrorType != model.ErrorTypeInvalidInput {
		t.Errorf("ErrorType = %q, want invalid_input", aerr.Report.ErrorType)
	}
}

func TestRunLocaleExhausted(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{}}
	p := testPipeline(t, adapter, nil)

	_, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", MultiLocale: true})
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if aerr.Report.ErrorType != model.ErrorTypeLocaleExhausted {
		t.Errorf("ErrorType = %q, want locale_exhausted", aerr.Report.ErrorType)
	}
	if len(aerr.Report.LocaleErrors) == 0 {
		t.Error("expected per-locale failure notes")
	}
}

func TestRunSyntheticFallback(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{}}
	p := testPipeline(t, adapter, func(cfg *model.Config) {
		cfg.Fetch.SyntheticFallback = true
	})

	res, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", MultiLocale: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback || res.Source != "synthetic" {
		t.Errorf("fallback = %v source = %q", res.Fallback, res.Source)
	}
	found := false
	for _, ins := range res.Insights {
		if ins == "No live review data was available; this report is based on generated sample data." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected fallback insight, got %v", res.Insights)
	}
}

func TestRunCacheHit(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{"US": usResponse()}}
	p := testPipeline(t, adapter, nil)

	first, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", Locale: "US"})
	if err != nil {
		t.Fatal(err)
	}
	callsAfterFirst := adapter.calls

	second, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", Locale: "US"})
	if err != nil {
		t.Fatal(err)
	}
	if adapter.calls != callsAfterFirst {
		t.Errorf("cache hit still called adapter: %d -> %d", callsAfterFirst, adapter.calls)
	}
	if second.ReportID != first.ReportID {
		t.Errorf("cached report id %q != original %q", second.ReportID, first.ReportID)
	}

	// SkipCache recomputes.
	third, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", Locale: "US", SkipCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if adapter.calls == callsAfterFirst {
		t.Error("SkipCache did not refetch")
	}
	if third.ReportID == first.ReportID {
		t.Error("recomputed report should carry a fresh id")
	}
}

func TestRunCacheDisabled(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{"US": usResponse()}}
	p := testPipeline(t, adapter, func(cfg *model.Config) {
		cfg.Cache.Enabled = false
	})

	for i := 0; i < 2; i++ {
		if _, err := p.Run(context.Background(), Request{ProductID: "B0TESTASIN", Locale: "US"}); err != nil {
			t.Fatal(err)
		}
	}
	if adapter.calls != 2 {
		t.Errorf("calls = %d, want 2 with cache disabled", adapter.calls)
	}
}

func TestRunCancellation(t *testing.T) {
	blocker := blockingAdapter{}
	p := testPipeline(t, blocker, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, Request{ProductID: "B0TESTASIN"}); err == nil {
		t.Fatal("expected error after cancellation")
	}
}

type blockingAdapter struct{}

func (blockingAdapter) Name() string { return "blocking" }

func (blockingAdapter) Fetch(ctx context.Context, _, _ string, _ int) (*source.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAnalyzeDefaultsMultiLocale(t *testing.T) {
	adapter := &scriptedAdapter{responses: map[string]*source.Response{"DE": usResponse()}}
	p := testPipeline(t, adapter, nil)

	res, err := p.Analyze(context.Background(), "B0TESTASIN")
	if err != nil {
		t.Fatal(err)
	}
	if res.Locale != "DE" {
		t.Errorf("locale = %q, want DE via fallback", res.Locale)
	}
}
