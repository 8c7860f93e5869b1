package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/util"
	"github.com/ppiankov/reviewlens/internal/worker"
)

var numberPattern = regexp.MustCompile(`[\d.]+`)

// PageAdapter scrapes marketplace review pages directly. It is a secondary
// provider: slower and more fragile than the scraping service, but free of
// per-request billing. Fetches are robots.txt-gated and rate limited.
type PageAdapter struct {
	httpClient *http.Client
	userAgent  string
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	maxPages   int
	log        *zap.Logger
}

// NewPageAdapter builds the direct page-scrape adapter from config.
func NewPageAdapter(cfg *model.Config, log *zap.Logger) *PageAdapter {
	return &PageAdapter{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		robots:    util.NewRobotsChecker(cfg.HTTP.UserAgent, 10*time.Second),
		limiter:   worker.NewLimiter(cfg.Fetch.RatePerSecond, cfg.Fetch.RateBurst),
		maxPages:  10,
		log:       log,
	}
}

// Name returns the adapter name used in provenance tags.
func (a *PageAdapter) Name() string { return "pagescrape" }

// Fetch walks review pages until maxReviews records are collected or a page
// comes back empty.
func (a *PageAdapter) Fetch(ctx context.Context, productID, locale string, maxReviews int) (*Response, error) {
	domain := DomainForLocale(locale)
	baseURL := fmt.Sprintf("https://www.%s/product-reviews/%s", domain, productID)

	if !a.robots.IsAllowed(ctx, baseURL) {
		return &Response{
			Success:   false,
			Error:     fmt.Sprintf("robots.txt disallows %s", baseURL),
			ErrorType: model.ErrorTypeUpstreamUnavailable,
		}, nil
	}

	var reviews []RawReview
	var product map[string]any

	pages := (maxReviews-1)/10 + 1
	if pages > a.maxPages {
		pages = a.maxPages
	}

	for page := 1; page <= pages && len(reviews) < maxReviews; page++ {
		pageURL := baseURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?pageNumber=%d", baseURL, page)
		}

		doc, err := a.fetchPage(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return &Response{
				Success:   false,
				Error:     fmt.Sprintf("page %d: %v", page, err),
				ErrorType: model.ErrorTypeUpstreamUnavailable,
			}, nil
		}

		if product == nil {
			product = parseProduct(doc)
		}

		pageReviews := parseReviews(doc, productID, page)
		if len(pageReviews) == 0 {
			a.log.Debug("no reviews on page", zap.Int("page", page))
			break
		}
		reviews = append(reviews, pageReviews...)
	}

	if len(reviews) == 0 {
		return &Response{
			Success:   false,
			Error:     "no reviews found on marketplace pages",
			ErrorType: model.ErrorTypeEmptyResult,
		}, nil
	}
	if len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}

	return &Response{Success: true, Reviews: reviews, Product: product}, nil
}

func (a *PageAdapter) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	// Honor the host's crawl-delay on top of our own rate.
	if err := a.limiter.WaitWithDelay(ctx, pageURL, a.robots.CrawlDelay(ctx, pageURL)); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func parseProduct(doc *goquery.Document) map[string]any {
	product := map[string]any{}
	if title := strings.TrimSpace(doc.Find(`a[data-hook="product-link"]`).First().Text()); title != "" {
		product["title"] = title
	}
	if ratingText := doc.Find(`span[data-hook="rating-out-of-text"]`).First().Text(); ratingText != "" {
		if m := numberPattern.FindString(ratingText); m != "" {
			if avg, err := strconv.ParseFloat(m, 64); err == nil {
				product["average_rating"] = avg
			}
		}
	}
	return product
}

func parseReviews(doc *goquery.Document, productID string, page int) []RawReview {
	var reviews []RawReview

	doc.Find(`div[data-hook="review"]`).Each(func(i int, sel *goquery.Selection) {
		raw := RawReview{}

		if id, ok := sel.Attr("id"); ok && id != "" {
			raw["review_id"] = id
		} else {
			raw["review_id"] = fmt.Sprintf("%s_p%d_%d", productID, page, i)
		}

		if ratingText := sel.Find(`i[data-hook="review-star-rating"]`).First().Text(); ratingText != "" {
			if m := numberPattern.FindString(ratingText); m != "" {
				if rating, err := strconv.ParseFloat(m, 64); err == nil {
					raw["rating"] = rating
				}
			}
		}

		raw["review_title"] = strings.TrimSpace(sel.Find(`a[data-hook="review-title"] span`).Last().Text())
		raw["review_text"] = strings.TrimSpace(sel.Find(`span[data-hook="review-body"]`).First().Text())
		raw["author"] = strings.TrimSpace(sel.Find(`span.a-profile-name`).First().Text())

		if dateText := strings.TrimSpace(sel.Find(`span[data-hook="review-date"]`).First().Text()); dateText != "" {
			// "Reviewed in the United States on January 2, 2024"
			if idx := strings.LastIndex(dateText, " on "); idx >= 0 {
				dateText = dateText[idx+4:]
			}
			raw["review_date"] = dateText
		}

		raw["verified_purchase"] = sel.Find(`span[data-hook="avp-badge"]`).Length() > 0

		if helpfulText := sel.Find(`span[data-hook="helpful-vote-statement"]`).First().Text(); helpfulText != "" {
			if m := numberPattern.FindString(helpfulText); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					raw["helpful_votes"] = n
				}
			}
		}

		reviews = append(reviews, raw)
	})

	return reviews
}
