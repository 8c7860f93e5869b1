package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reviewlens/internal/pipeline"
	"github.com/ppiankov/reviewlens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple products from a file in parallel",
	Long: `Batch reads product ids from a file (one per line, '#' comments
allowed) and analyzes them concurrently. Each product gets its own JSON
report in the output directory; one product failing never aborts the rest.

Example:
  reviewlens batch products.txt
  reviewlens batch products.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "concurrent workers (0 = config default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./reviewlens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the whole batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p := pipeline.New(cfg, log)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Verbose)
	var succeeded, failed int

	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.ProductID, result.Error)
			continue
		}
		succeeded++

		path := filepath.Join(outputDir, result.ProductID+".json")
		if err := renderer.RenderJSON(result.Report, path); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write report: %v\n", result.ProductID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK   %s: %d reviews analyzed, avg %.1f\n",
			result.ProductID, result.Report.AnalyzedReviews, result.Report.AverageRating)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d ok, %d failed, reports in %s\n",
		succeeded, failed, outputDir)

	if failed > 0 && succeeded == 0 {
		return fmt.Errorf("all %d products failed", failed)
	}
	return nil
}
