package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Summarizer wraps a Provider with graceful degradation: a disabled or
// unreachable provider yields no narrative and no error. Analysis output
// never depends on it.
type Summarizer struct {
	provider Provider
	config   model.LLMConfig
	log      *zap.Logger
}

// NewSummarizer builds the summarizer from config. An empty provider name
// produces a disabled summarizer.
func NewSummarizer(config model.LLMConfig, log *zap.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config, log)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config, log: log}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or empty when
// disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Narrate generates the narrative for a report. Returns empty without error
// when disabled or when the provider is unavailable; provider call failures
// are logged and swallowed the same way.
func (s *Summarizer) Narrate(ctx context.Context, report *model.AnalysisResult) string {
	if s.provider == nil {
		return ""
	}
	if !s.provider.IsAvailable(ctx) {
		s.log.Warn("narrative provider unavailable, skipping",
			zap.String("provider", s.provider.Name()))
		return ""
	}

	resp, err := s.provider.Narrate(ctx, NarrateRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		s.log.Warn("narrative generation failed", zap.Error(err))
		return ""
	}

	s.log.Debug("narrative generated",
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed))
	return resp.Narrative
}
