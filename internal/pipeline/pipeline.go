// Package pipeline orchestrates a complete product analysis: cache lookup,
// review acquisition, bot filtering, concurrent scoring stages, aggregation,
// and the optional narrative.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/botfilter"
	"github.com/ppiankov/reviewlens/internal/cache"
	"github.com/ppiankov/reviewlens/internal/emotion"
	"github.com/ppiankov/reviewlens/internal/insight"
	"github.com/ppiankov/reviewlens/internal/llm"
	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/sentiment"
	"github.com/ppiankov/reviewlens/internal/source"
	"github.com/ppiankov/reviewlens/internal/themes"
)

// Pipeline runs analyses. Safe for concurrent use; batch workers share one
// instance.
type Pipeline struct {
	cfg        *model.Config
	fetcher    *source.Fetcher
	filter     *botfilter.Filter
	aggregator *insight.Aggregator
	summarizer *llm.Summarizer
	store      cache.Cache
	log        *zap.Logger
}

// New builds a pipeline from config. A failing LLM setup disables the
// narrative instead of failing construction.
func New(cfg *model.Config, log *zap.Logger) *Pipeline {
	summarizer, err := llm.NewSummarizer(cfg.LLM, log)
	if err != nil {
		log.Warn("narrative provider disabled", zap.Error(err))
		summarizer, _ = llm.NewSummarizer(model.LLMConfig{}, log)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	return &Pipeline{
		cfg:        cfg,
		fetcher:    source.NewFetcher(cfg, log),
		filter:     botfilter.New(cfg.Analysis),
		aggregator: insight.New(cfg.Analysis),
		summarizer: summarizer,
		store:      store,
		log:        log,
	}
}

// NewWithFetcher builds a pipeline around an explicit fetcher. Used by tests.
func NewWithFetcher(cfg *model.Config, log *zap.Logger, fetcher *source.Fetcher) *Pipeline {
	p := New(cfg, log)
	p.fetcher = fetcher
	return p
}

// Request is one analysis request.
type Request struct {
	ProductID   string
	Locale      string
	MaxReviews  int
	MultiLocale bool
	// SkipCache forces recomputation and overwrites the cached entry.
	SkipCache bool
}

// AnalysisError is the structured failure for a request that produced no
// report.
type AnalysisError struct {
	Report model.FailureReport
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", e.Report.ErrorType, e.Report.Error)
}

// Analyze runs a default-parameter analysis for one product. Satisfies the
// batch worker contract.
func (p *Pipeline) Analyze(ctx context.Context, productID string) (*model.AnalysisResult, error) {
	return p.Run(ctx, Request{ProductID: productID, MultiLocale: true})
}

// Run executes the full pipeline for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*model.AnalysisResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Fetch.RequestBudget)
	defer cancel()

	productID := source.CanonicalProductID(req.ProductID)
	maxReviews := req.MaxReviews
	if maxReviews <= 0 {
		maxReviews = p.cfg.Fetch.MaxReviews
	}
	if maxReviews > p.cfg.Fetch.MaxReviewsCeiling {
		maxReviews = p.cfg.Fetch.MaxReviewsCeiling
	}

	key := cache.Key(productID, req.Locale, maxReviews)
	if p.store != nil && !req.SkipCache {
		if cached, found := p.store.Get(key); found {
			var res model.AnalysisResult
			if err := json.Unmarshal(cached, &res); err == nil {
				p.log.Debug("cache hit", zap.String("product", productID))
				return &res, nil
			}
			// A corrupt entry is recomputed, never served.
			p.log.Warn("dropping corrupt cache entry", zap.String("key", key))
			_ = p.store.Delete(key)
		}
	}

	fetch, err := p.fetcher.Fetch(ctx, source.Request{
		ProductID:   req.ProductID,
		Locale:      req.Locale,
		MaxReviews:  maxReviews,
		MultiLocale: req.MultiLocale,
	})
	if err != nil {
		return nil, err
	}
	if !fetch.Success {
		return nil, &AnalysisError{Report: model.FailureReport{
			ProductID:    productID,
			ErrorType:    fetch.ErrorType,
			Error:        fetch.Error,
			Suggestion:   fetch.Suggestion,
			LocalesTried: fetch.LocalesTried,
			LocaleErrors: fetch.LocaleErrors,
		}}
	}

	result := p.analyze(fetch)
	result.ReportID = uuid.NewString()
	result.GeneratedAt = time.Now().UTC()
	result.Elapsed = time.Since(start)

	if p.summarizer.IsEnabled() {
		result.Narrative = p.summarizer.Narrate(ctx, result)
	}

	if p.store != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := p.store.Set(key, payload, p.cfg.Cache.TTL); err != nil {
				p.log.Warn("cache write failed", zap.Error(err))
			}
		}
	}

	p.log.Info("analysis complete",
		zap.String("product", productID),
		zap.Int("reviews", result.TotalReviews),
		zap.Int("analyzed", result.AnalyzedReviews),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// analyze runs bot filtering, the concurrent scoring stages, and assembly.
func (p *Pipeline) analyze(fetch *model.FetchResult) *model.AnalysisResult {
	all, botStats := p.filter.ClassifyBatch(fetch.Reviews)

	filtered := make([]model.NormalizedReview, 0, len(all))
	for i := range all {
		if all[i].Bot == nil || !all[i].Bot.Flagged {
			filtered = append(filtered, all[i])
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string

		sentStats   model.SentimentStats
		emotionMean model.EmotionVector
		themeList   []model.Theme
	)

	stage := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("analysis stage failed",
						zap.String("stage", name), zap.Any("panic", r))
					mu.Lock()
					failures = append(failures, name)
					mu.Unlock()
				}
			}()
			fn()
		}()
	}

	// The stages are independent: each scores its own aspect of the same
	// filtered set and none reads another's output. ScoreBatch attaches
	// verdicts in place; the two writers touch disjoint fields.
	stage("sentiment", func() {
		_, sentStats = sentiment.ScoreBatch(filtered)
	})
	stage("emotion", func() {
		_, emotionMean = emotion.ScoreBatch(filtered)
	})
	stage("themes", func() {
		themeList = themes.Extract(filtered, p.cfg.Analysis.ThemeCount)
	})
	wg.Wait()

	// A failed sentiment stage degrades to neutral verdicts so aggregation
	// still has complete input.
	ensureDefaults(filtered, &sentStats)

	result := p.aggregator.Build(insight.Input{
		Fetch:          fetch,
		Reviews:        filtered,
		TotalReviews:   len(all),
		BotStats:       botStats,
		SentimentStats: sentStats,
		Themes:         themeList,
		Emotions:       emotionMean,
	})
	result.PartialFailures = failures
	return result
}

func ensureDefaults(reviews []model.NormalizedReview, stats *model.SentimentStats) {
	if stats.Distribution == nil {
		stats.Distribution = map[string]int{
			model.SentimentPositive: 0,
			model.SentimentNeutral:  0,
			model.SentimentNegative: 0,
		}
	}
	for i := range reviews {
		if reviews[i].Sentiment == nil {
			reviews[i].Sentiment = &model.SentimentVerdict{Label: model.SentimentNeutral}
			stats.Distribution[model.SentimentNeutral]++
		}
		if reviews[i].Emotions == nil {
			reviews[i].Emotions = &model.EmotionVector{}
		}
	}
}
