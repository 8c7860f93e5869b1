package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/model"
)

// mockProvider implements Provider for testing.
type mockProvider struct {
	name      string
	available bool
	response  *NarrateResponse
	err       error
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Narrate(_ context.Context, _ NarrateRequest) (*NarrateResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsAvailable(_ context.Context) bool { return m.available }

func testReport() *model.AnalysisResult {
	return &model.AnalysisResult{
		ProductID:       "B0TESTASIN",
		TotalReviews:    10,
		AnalyzedReviews: 8,
		AverageRating:   4.1,
		SentimentDistribution: map[string]int{
			model.SentimentPositive: 6,
			model.SentimentNeutral:  1,
			model.SentimentNegative: 1,
		},
	}
}

func TestNewSummarizerDisabled(t *testing.T) {
	s, err := NewSummarizer(model.LLMConfig{Provider: ""}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsEnabled() {
		t.Error("summarizer with empty provider should be disabled")
	}
	if s.ProviderName() != "" {
		t.Errorf("ProviderName = %q, want empty", s.ProviderName())
	}
	if got := s.Narrate(context.Background(), testReport()); got != "" {
		t.Errorf("disabled summarizer returned %q", got)
	}
}

func TestNewSummarizerUnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(model.LLMConfig{Provider: "mystery"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewSummarizerOpenAIRequiresKey(t *testing.T) {
	if _, err := NewSummarizer(model.LLMConfig{Provider: "openai"}, zap.NewNop()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNarrateUnavailableProvider(t *testing.T) {
	s := &Summarizer{
		provider: &mockProvider{name: "mock", available: false},
		log:      zap.NewNop(),
	}
	if got := s.Narrate(context.Background(), testReport()); got != "" {
		t.Errorf("unavailable provider returned %q, want empty", got)
	}
}

func TestNarrateProviderErrorSwallowed(t *testing.T) {
	s := &Summarizer{
		provider: &mockProvider{name: "mock", available: true, err: errors.New("rate limited")},
		log:      zap.NewNop(),
	}
	if got := s.Narrate(context.Background(), testReport()); got != "" {
		t.Errorf("failing provider returned %q, want empty", got)
	}
}

func TestNarrateSuccess(t *testing.T) {
	s := &Summarizer{
		provider: &mockProvider{
			name:      "mock",
			available: true,
			response:  &NarrateResponse{Narrative: "Reviews skew positive.", Model: "mock-1"},
		},
		log: zap.NewNop(),
	}
	if got := s.Narrate(context.Background(), testReport()); got != "Reviews skew positive." {
		t.Errorf("narrative = %q", got)
	}
}

func TestBuildPromptUsesDigestOnly(t *testing.T) {
	prompt := BuildPrompt(testReport())
	if !strings.Contains(prompt, "B0TESTASIN") {
		t.Error("prompt missing product id from digest")
	}
	if !strings.Contains(prompt, "Do not invent") {
		t.Error("prompt missing grounding rule")
	}
}
