package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/reviewlens/internal/model"
)

// Renderer writes analysis results as JSON files and human-readable
// stdout summaries.
type Renderer struct {
	out     io.Writer
	verbose bool
}

// NewRenderer creates a renderer writing summaries to stdout.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{out: os.Stdout, verbose: verbose}
}

// RenderJSON writes the result as indented JSON. An empty path writes to
// stdout.
func (r *Renderer) RenderJSON(res *model.AnalysisResult, path string) error {
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	payload = append(payload, '\n')

	if path == "" {
		_, err = r.out.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if r.verbose {
		fmt.Fprintf(r.out, "wrote %s\n", path)
	}
	return nil
}

// RenderFailure writes a structured failure as JSON to stdout.
func (r *Renderer) RenderFailure(report model.FailureReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = r.out.Write(payload)
	return err
}

// RenderSummary prints the report highlights.
func (r *Renderer) RenderSummary(res *model.AnalysisResult) {
	title := res.ProductID
	if res.Product != nil && res.Product.Title != "" {
		title = fmt.Sprintf("%s (%s)", res.Product.Title, res.ProductID)
	}

	fmt.Fprintf(r.out, "\n%s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("=", len(title)))

	fmt.Fprintf(r.out, "Locale: %s  Source: %s", res.Locale, res.Source)
	if res.Fallback {
		fmt.Fprint(r.out, "  [generated sample data]")
	}
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "Reviews: %d fetched, %d analyzed, %d flagged as bots (%.0f%%)\n",
		res.TotalReviews, res.AnalyzedReviews, res.BotStats.BotCount, res.BotStats.BotPercentage)
	fmt.Fprintf(r.out, "Average rating: %.1f  Sentiment: %d+ / %d= / %d- (compound %.2f)\n",
		res.AverageRating,
		res.SentimentDistribution[model.SentimentPositive],
		res.SentimentDistribution[model.SentimentNeutral],
		res.SentimentDistribution[model.SentimentNegative],
		res.MeanCompound)

	if dim, val := res.Emotions.Dominant(); dim != "" {
		fmt.Fprintf(r.out, "Dominant emotion: %s (%.2f)\n", dim, val)
	}

	if len(res.Themes) > 0 {
		fmt.Fprintln(r.out, "\nThemes:")
		for _, th := range res.Themes {
			fmt.Fprintf(r.out, "  %-20s %3d mentions  %s\n", th.Label, th.Mentions, th.Sentiment)
		}
	}

	if len(res.TopKeywords) > 0 && r.verbose {
		words := make([]string, 0, len(res.TopKeywords))
		for _, kw := range res.TopKeywords {
			words = append(words, fmt.Sprintf("%s(%d)", kw.Word, kw.Count))
		}
		fmt.Fprintf(r.out, "\nKeywords: %s\n", strings.Join(words, " "))
	}

	if len(res.Insights) > 0 {
		fmt.Fprintln(r.out, "\nInsights:")
		for _, ins := range res.Insights {
			fmt.Fprintf(r.out, "  - %s\n", ins)
		}
	}

	if res.Narrative != "" {
		fmt.Fprintf(r.out, "\nSummary:\n%s\n", res.Narrative)
	}

	if len(res.PartialFailures) > 0 {
		sorted := append([]string(nil), res.PartialFailures...)
		sort.Strings(sorted)
		fmt.Fprintf(r.out, "\nDegraded stages: %s\n", strings.Join(sorted, ", "))
	}

	fmt.Fprintf(r.out, "\nGenerated %s in %s\n",
		res.GeneratedAt.Format("2006-01-02 15:04:05 MST"), res.Elapsed.Round(time.Millisecond))
}
