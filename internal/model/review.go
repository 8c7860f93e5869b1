package model

import "time"

// NormalizedReview is a single customer review after field normalization.
// Pipeline stages attach their verdicts to it; the review itself is never
// mutated after fetch normalization.
type NormalizedReview struct {
	ID           string    `json:"id"`
	Rating       float64   `json:"rating"`              // 1-5 once normalized
	HasRating    bool      `json:"has_rating"`          // false when upstream rating was unusable
	Title        string    `json:"title,omitempty"`
	Body         string    `json:"body"`
	Author       string    `json:"author,omitempty"`
	Date         time.Time `json:"date"`
	Verified     bool      `json:"verified"`
	HelpfulCount int       `json:"helpful_count"`
	Locale       string    `json:"locale"`
	Source       string    `json:"source"` // adapter name that produced the record

	Bot       *BotVerdict       `json:"bot,omitempty"`
	Sentiment *SentimentVerdict `json:"sentiment,omitempty"`
	Emotions  *EmotionVector    `json:"emotions,omitempty"`
}

// HasText reports whether the review carries analyzable text.
func (r *NormalizedReview) HasText() bool {
	return len(r.Body) > 0 || len(r.Title) > 0
}

// Text returns title and body joined for text analysis.
func (r *NormalizedReview) Text() string {
	switch {
	case r.Title == "":
		return r.Body
	case r.Body == "":
		return r.Title
	default:
		return r.Title + " " + r.Body
	}
}

// ProductInfo describes the product the reviews belong to.
// Built once per fetch from the first usable source record; fields may be absent.
type ProductInfo struct {
	ProductID     string  `json:"product_id"`
	Title         string  `json:"title,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	AverageRating float64 `json:"average_rating,omitempty"` // as declared by the source
	ReviewCount   int     `json:"review_count,omitempty"`   // as declared by the source
}

// FetchResult is the outcome of one acquisition attempt across the locale
// priority list. Immutable once returned by the fetcher.
type FetchResult struct {
	Success      bool               `json:"success"`
	Product      *ProductInfo       `json:"product,omitempty"`
	Reviews      []NormalizedReview `json:"reviews"`
	Locale       string             `json:"locale,omitempty"`        // locale that succeeded
	LocalesTried []string           `json:"locales_tried"`
	LocaleErrors map[string]string  `json:"locale_errors,omitempty"` // per-locale failure notes
	Source       string             `json:"source,omitempty"`        // adapter provenance
	Fallback     bool               `json:"fallback"`                // true when the synthetic generator produced the data
	ErrorType    string             `json:"error_type,omitempty"`
	Error        string             `json:"error,omitempty"`
	Suggestion   string             `json:"suggestion,omitempty"`
	FetchedAt    time.Time          `json:"fetched_at"`
}
