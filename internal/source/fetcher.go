package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/model"
)

// asinPattern matches marketplace product identifiers: 'B' followed by nine
// alphanumerics.
var asinPattern = regexp.MustCompile(`^B[0-9A-Z]{9}$`)

// ValidProductID reports whether id is a well-formed product identifier.
// Matching is case-insensitive; callers should canonicalize with
// CanonicalProductID before use.
func ValidProductID(id string) bool {
	return asinPattern.MatchString(strings.ToUpper(strings.TrimSpace(id)))
}

// CanonicalProductID upper-cases and trims the identifier.
func CanonicalProductID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Request is one acquisition request.
type Request struct {
	ProductID  string
	Locale     string // preferred locale; empty means config default
	MaxReviews int    // 0 means config default; clamped to the ceiling
	// MultiLocale enables fallback through the rest of the priority list
	// after the preferred locale fails.
	MultiLocale bool
}

// Fetcher runs the locale-fallback acquisition loop over a chain of
// adapters. Adapters are tried in order per locale; the first success
// short-circuits both the chain and the remaining locales.
type Fetcher struct {
	cfg       *model.Config
	adapters  []Adapter
	synthetic Adapter
	log       *zap.Logger
}

// NewFetcher wires the adapter chain from config: the scraping service
// always, the direct page adapter when enabled, and the synthetic generator
// as the fallback of last resort.
func NewFetcher(cfg *model.Config, log *zap.Logger) *Fetcher {
	adapters := []Adapter{NewScrapeAdapter(cfg, log)}
	if cfg.Fetch.PageScrape {
		adapters = append(adapters, NewPageAdapter(cfg, log))
	}
	return &Fetcher{
		cfg:       cfg,
		adapters:  adapters,
		synthetic: NewSyntheticAdapter(),
		log:       log,
	}
}

// NewFetcherWithAdapters builds a fetcher over an explicit chain. Used by
// tests and by callers that bring their own providers.
func NewFetcherWithAdapters(cfg *model.Config, log *zap.Logger, synthetic Adapter, adapters ...Adapter) *Fetcher {
	return &Fetcher{cfg: cfg, adapters: adapters, synthetic: synthetic, log: log}
}

// Fetch acquires reviews for one product. It never returns a Go error for
// upstream failures; those are encoded on the FetchResult. The returned
// error is non-nil only for context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*model.FetchResult, error) {
	productID := CanonicalProductID(req.ProductID)
	if !ValidProductID(productID) {
		return &model.FetchResult{
			Success:    false,
			ErrorType:  model.ErrorTypeInvalidInput,
			Error:      fmt.Sprintf("invalid product id %q", req.ProductID),
			Suggestion: "product ids start with 'B' followed by nine letters or digits",
			FetchedAt:  time.Now().UTC(),
		}, nil
	}

	maxReviews := req.MaxReviews
	if maxReviews <= 0 {
		maxReviews = f.cfg.Fetch.MaxReviews
	}
	if maxReviews > f.cfg.Fetch.MaxReviewsCeiling {
		maxReviews = f.cfg.Fetch.MaxReviewsCeiling
	}

	locales := f.localePriority(req.Locale, req.MultiLocale)
	tried := make([]string, 0, len(locales))
	localeErrors := make(map[string]string, len(locales))

	for _, locale := range locales {
		tried = append(tried, locale)

		resp, source, err := f.tryLocale(ctx, productID, locale, maxReviews)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			localeErrors[locale] = "no adapter produced a response"
			continue
		}
		if !resp.Success || len(resp.Reviews) == 0 {
			note := resp.Error
			if note == "" {
				note = "no reviews returned"
			}
			localeErrors[locale] = note
			f.log.Info("locale failed",
				zap.String("product", productID),
				zap.String("locale", locale),
				zap.String("reason", note))
			continue
		}

		reviews := NormalizeBatch(resp.Reviews, locale, source)
		if len(reviews) == 0 {
			localeErrors[locale] = "all records dropped during normalization"
			continue
		}

		f.log.Info("fetch succeeded",
			zap.String("product", productID),
			zap.String("locale", locale),
			zap.String("source", source),
			zap.Int("reviews", len(reviews)))

		return &model.FetchResult{
			Success:      true,
			Product:      NormalizeProduct(resp.Product, productID),
			Reviews:      reviews,
			Locale:       locale,
			LocalesTried: tried,
			LocaleErrors: localeErrors,
			Source:       source,
			FetchedAt:    time.Now().UTC(),
		}, nil
	}

	if f.cfg.Fetch.SyntheticFallback {
		return f.syntheticResult(ctx, productID, locales, tried, localeErrors, maxReviews)
	}

	return &model.FetchResult{
		Success:      false,
		LocalesTried: tried,
		LocaleErrors: localeErrors,
		ErrorType:    model.ErrorTypeLocaleExhausted,
		Error:        fmt.Sprintf("no reviews found for %s in any locale", productID),
		Suggestion:   "verify the product id or enable the synthetic fallback",
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// tryLocale walks the adapter chain for one locale under the per-call wait
// ceiling. Returns the first successful response, or the last failure.
func (f *Fetcher) tryLocale(ctx context.Context, productID, locale string, maxReviews int) (*Response, string, error) {
	var last *Response
	var lastName string

	for _, adapter := range f.adapters {
		callCtx, cancel := context.WithTimeout(ctx, f.cfg.Fetch.AdapterWait)
		resp, err := adapter.Fetch(callCtx, productID, locale, maxReviews)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			// The per-adapter deadline fired; record it and move on.
			last = &Response{
				Success:   false,
				Error:     fmt.Sprintf("%s: %v", adapter.Name(), err),
				ErrorType: model.ErrorTypeTimeout,
			}
			lastName = adapter.Name()
			continue
		}
		if resp.Success && len(resp.Reviews) > 0 {
			return resp, adapter.Name(), nil
		}
		last = resp
		lastName = adapter.Name()
	}
	return last, lastName, nil
}

func (f *Fetcher) syntheticResult(ctx context.Context, productID string, locales, tried []string, localeErrors map[string]string, maxReviews int) (*model.FetchResult, error) {
	locale := f.cfg.Fetch.DefaultLocale
	if len(locales) > 0 {
		locale = locales[0]
	}

	resp, err := f.synthetic.Fetch(ctx, productID, locale, maxReviews)
	if err != nil {
		return nil, err
	}

	f.log.Warn("all locales failed, using synthetic data",
		zap.String("product", productID),
		zap.Strings("tried", tried))

	return &model.FetchResult{
		Success:      true,
		Product:      NormalizeProduct(resp.Product, productID),
		Reviews:      NormalizeBatch(resp.Reviews, locale, f.synthetic.Name()),
		Locale:       locale,
		LocalesTried: tried,
		LocaleErrors: localeErrors,
		Source:       f.synthetic.Name(),
		Fallback:     true,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// localePriority builds the attempt order: the preferred locale first, then
// the configured priority list minus duplicates. Single-locale requests get
// just the preferred entry.
func (f *Fetcher) localePriority(preferred string, multiLocale bool) []string {
	preferred = strings.ToUpper(strings.TrimSpace(preferred))
	if preferred == "" || !f.cfg.SupportedLocale(preferred) {
		preferred = f.cfg.Fetch.DefaultLocale
	}

	if !multiLocale {
		return []string{preferred}
	}

	order := make([]string, 0, len(f.cfg.Fetch.Locales))
	order = append(order, preferred)
	for _, l := range f.cfg.Fetch.Locales {
		if l != preferred {
			order = append(order, l)
		}
	}
	return order
}
