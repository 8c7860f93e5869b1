// Package llm generates the optional narrative summary of an analysis
// report. The narrative is presentation only; nothing downstream consumes it.
package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/reviewlens/internal/insight"
	"github.com/ppiankov/reviewlens/internal/model"
)

// Provider is a narrative backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Narrate produces a short prose summary of the report.
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest is the input for narrative generation.
type NarrateRequest struct {
	// Report is the finished analysis result to narrate.
	Report *model.AnalysisResult

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// NarrateResponse is the generated narrative.
type NarrateResponse struct {
	Narrative  string
	Model      string
	TokensUsed int
}

// BuildPrompt constructs the default narrative prompt. The model only sees
// the computed digest, never raw review text, so it cannot introduce claims
// about individual reviews.
func BuildPrompt(report *model.AnalysisResult) string {
	return fmt.Sprintf(`You are writing a short buyer-facing summary of a product review analysis.

RULES:
1. Use ONLY the figures in the digest below. Do not invent numbers, review quotes, or product details.
2. If the digest notes generated sample data, say the summary is illustrative.
3. Describe sentiment and themes neutrally; do not recommend buying or avoiding the product.

Digest:
%s
Write 3-4 plain sentences.`, insight.Digest(report))
}
