// Package source implements review acquisition: provider adapters, upstream
// record normalization, and the locale-fallback fetcher.
package source

import (
	"context"
)

// RawReview is one provider record before normalization. Field names are
// provider-specific; the normalizer resolves them through candidate-key lists.
type RawReview map[string]any

// Response is the uniform adapter answer the fetcher consumes.
type Response struct {
	Success   bool
	Reviews   []RawReview
	Product   map[string]any
	Error     string
	ErrorType string
}

// Adapter is a single review provider for one (product, locale) request.
// Implementations must honor ctx cancellation and return rather than block
// past it; the fetcher enforces the per-call wait ceiling through ctx.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, productID, locale string, maxReviews int) (*Response, error)
}

// marketplaceDomains maps supported locales to marketplace hosts.
var marketplaceDomains = map[string]string{
	"US": "amazon.com",
	"UK": "amazon.co.uk",
	"DE": "amazon.de",
	"CA": "amazon.ca",
	"IN": "amazon.in",
}

// DomainForLocale returns the marketplace host for a locale, defaulting to
// the US marketplace for unknown codes.
func DomainForLocale(locale string) string {
	if d, ok := marketplaceDomains[locale]; ok {
		return d
	}
	return marketplaceDomains["US"]
}
