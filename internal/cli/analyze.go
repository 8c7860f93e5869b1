package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reviewlens/internal/pipeline"
)

var (
	locale      string
	maxReviews  int
	multiLocale bool
	noCache     bool
	outJSON     string
	budget      time.Duration
	llmEnabled  bool
	llmModel    string
	pageScrape  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <product-id>",
	Short: "Analyze reviews for a single product",
	Long: `Analyze fetches reviews for one product, filters bot and fake
reviews, and produces a sentiment, emotion, and theme report.

The product id is the marketplace identifier ('B' followed by nine letters
or digits). Locales are tried in priority order when --multi-locale is set.

Example:
  reviewlens analyze B0ABCD1234
  reviewlens analyze B0ABCD1234 --locale DE --max-reviews 80
  reviewlens analyze B0ABCD1234 --multi-locale --json report.json
  reviewlens analyze B0ABCD1234 --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&locale, "locale", "", "preferred marketplace locale (IN, US, UK, DE, CA)")
	analyzeCmd.Flags().IntVar(&maxReviews, "max-reviews", 0, "reviews to fetch (0 = config default)")
	analyzeCmd.Flags().BoolVar(&multiLocale, "multi-locale", true, "fall back through other locales when the preferred one fails")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the cache and recompute")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the full report JSON to this path")
	analyzeCmd.Flags().DurationVar(&budget, "timeout", 0, "overall request budget (0 = config default)")
	analyzeCmd.Flags().BoolVar(&pageScrape, "page-scrape", false, "enable the direct marketplace page adapter")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate a narrative summary (requires OPENAI_API_KEY)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "narrative model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if budget > 0 {
		cfg.Fetch.RequestBudget = budget
	}
	if pageScrape {
		cfg.Fetch.PageScrape = true
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmEnabled {
		cfg.LLM.Provider = "openai"
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p := pipeline.New(cfg, log)
	renderer := pipeline.NewRenderer(cfg.Output.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := p.Run(ctx, pipeline.Request{
		ProductID:   args[0],
		Locale:      locale,
		MaxReviews:  maxReviews,
		MultiLocale: multiLocale,
		SkipCache:   noCache,
	})
	if err != nil {
		var aerr *pipeline.AnalysisError
		if errors.As(err, &aerr) {
			_ = renderer.RenderFailure(aerr.Report)
			os.Exit(1)
		}
		return fmt.Errorf("analyze: %w", err)
	}

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return err
		}
	}
	renderer.RenderSummary(result)

	return nil
}
