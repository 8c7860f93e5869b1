package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/reviewlens/internal/model"
)

// fieldCandidates maps each NormalizedReview field to the upstream keys that
// may carry it, in priority order. First present non-empty key wins. New
// adapters extend these lists instead of adding conditionals to the
// normalizer.
var fieldCandidates = map[string][]string{
	"id":       {"id", "review_id", "reviewId", "external_id"},
	"rating":   {"rating", "stars", "score"},
	"title":    {"title", "review_title", "reviewTitle", "summary"},
	"body":     {"text", "review_text", "reviewText", "body", "content"},
	"author":   {"author", "authorName", "author_name", "reviewer"},
	"date":     {"date", "review_date", "reviewDate", "posted_at"},
	"verified": {"verified", "verified_purchase", "verifiedPurchase"},
	"helpful":  {"helpful_count", "helpfulCount", "helpful_votes", "helpfulVotes"},
}

// productCandidates is the same table for ProductInfo fields.
var productCandidates = map[string][]string{
	"title":          {"title", "product_title", "productTitle", "name"},
	"brand":          {"brand", "manufacturer"},
	"image":          {"image_url", "imageUrl", "mainImage", "image"},
	"average_rating": {"average_rating", "averageRating", "rating"},
	"review_count":   {"total_reviews", "totalReviews", "review_count", "reviewsCount"},
}

// dateLayouts covers the formats observed from the providers and generator.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// NormalizeReview maps a raw provider record into a NormalizedReview.
// Returns ok=false for records with neither usable text nor a usable rating;
// those are dropped before any counting (uniform policy, pinned by tests).
func NormalizeReview(raw RawReview, locale, source string) (model.NormalizedReview, bool) {
	r := model.NormalizedReview{
		ID:     pickString(raw, fieldCandidates["id"]),
		Title:  strings.TrimSpace(pickString(raw, fieldCandidates["title"])),
		Body:   strings.TrimSpace(pickString(raw, fieldCandidates["body"])),
		Author: strings.TrimSpace(pickString(raw, fieldCandidates["author"])),
		Locale: locale,
		Source: source,
	}

	if rating, ok := pickFloat(raw, fieldCandidates["rating"]); ok && rating >= 1 && rating <= 5 {
		r.Rating = rating
		r.HasRating = true
	}

	if !r.HasText() && !r.HasRating {
		return model.NormalizedReview{}, false
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if d, ok := pickDate(raw, fieldCandidates["date"]); ok {
		r.Date = d
	}
	r.Verified = pickBool(raw, fieldCandidates["verified"])
	if helpful, ok := pickFloat(raw, fieldCandidates["helpful"]); ok && helpful > 0 {
		r.HelpfulCount = int(helpful)
	}

	return r, true
}

// NormalizeBatch normalizes a full provider response, dropping unusable
// records.
func NormalizeBatch(raws []RawReview, locale, source string) []model.NormalizedReview {
	reviews := make([]model.NormalizedReview, 0, len(raws))
	for _, raw := range raws {
		if r, ok := NormalizeReview(raw, locale, source); ok {
			reviews = append(reviews, r)
		}
	}
	return reviews
}

// NormalizeProduct builds ProductInfo from the first usable product record.
func NormalizeProduct(raw map[string]any, productID string) *model.ProductInfo {
	p := &model.ProductInfo{ProductID: productID}
	if raw == nil {
		return p
	}
	p.Title = pickString(RawReview(raw), productCandidates["title"])
	p.Brand = pickString(RawReview(raw), productCandidates["brand"])
	p.ImageURL = pickString(RawReview(raw), productCandidates["image"])
	if avg, ok := pickFloat(RawReview(raw), productCandidates["average_rating"]); ok {
		p.AverageRating = avg
	}
	if n, ok := pickFloat(RawReview(raw), productCandidates["review_count"]); ok {
		p.ReviewCount = int(n)
	}
	return p
}

func pickString(raw RawReview, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func pickFloat(raw RawReview, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func pickBool(raw RawReview, keys []string) bool {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed
			}
		}
	}
	return false
}

func pickDate(raw RawReview, keys []string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
