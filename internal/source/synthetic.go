package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// positive/neutral/negative templates for the deterministic generator. Kept
// deliberately varied in length and tone so downstream scoring stages see a
// realistic spread.
var syntheticPositive = []struct {
	title string
	body  string
}{
	{"Excellent product, highly recommend", "This exceeded my expectations. The build quality is excellent and it works exactly as described. I have been using it daily for weeks without any issues."},
	{"Great value for money", "Really happy with this purchase. Good quality materials, easy to set up, and the price was very reasonable compared to alternatives."},
	{"Works perfectly", "Does exactly what it says. Setup took five minutes and it has been reliable ever since. Would buy again."},
	{"Very satisfied", "Fantastic quality and fast delivery. The design is sleek and it feels durable. My whole family loves it."},
	{"Impressive performance", "The performance is outstanding for this price range. Battery life is great and it handles everything I throw at it smoothly."},
}

var syntheticNeutral = []struct {
	title string
	body  string
}{
	{"Decent but not amazing", "It works fine for basic use. Nothing special about it, but nothing terrible either. You get what you pay for."},
	{"Average product", "Does the job adequately. The build feels a bit cheap in places, but functionally it is acceptable for occasional use."},
	{"Okay for the price", "It is an okay product. Some features work well, others feel half finished. I might look at other options next time."},
}

var syntheticNegative = []struct {
	title string
	body  string
}{
	{"Disappointed with quality", "Stopped working after two weeks. The materials feel flimsy and customer service was slow to respond. Would not recommend."},
	{"Not as described", "The product looks nothing like the pictures. Smaller than expected and the finish has visible defects. Returning it."},
	{"Waste of money", "Terrible experience. It arrived damaged and the replacement had the same issue. Save your money and buy something else."},
}

var syntheticAuthors = []string{
	"Priya S.", "Michael T.", "Sarah Johnson", "Rahul K.", "Emma W.",
	"David Chen", "Anita R.", "James O.", "Lena M.", "Carlos V.",
	"Nina P.", "Tom H.", "Ayesha B.", "Mark D.", "Sophie L.",
}

// SyntheticAdapter generates plausible review data when no upstream provider
// can serve a product. Output is deterministic per product ID so repeated
// requests and cached responses agree.
type SyntheticAdapter struct{}

// NewSyntheticAdapter builds the fallback generator.
func NewSyntheticAdapter() *SyntheticAdapter { return &SyntheticAdapter{} }

// Name returns the adapter name used in provenance tags.
func (a *SyntheticAdapter) Name() string { return "synthetic" }

// Fetch generates maxReviews records seeded by the product ID.
func (a *SyntheticAdapter) Fetch(_ context.Context, productID, _ string, maxReviews int) (*Response, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(productID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	if maxReviews < 1 {
		maxReviews = 1
	}

	reviews := make([]RawReview, 0, maxReviews)
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < maxReviews; i++ {
		var title, body string
		var rating float64

		// Roughly 50% positive, 20% neutral, 30% negative across ratings.
		switch roll := rng.Intn(10); {
		case roll < 5:
			t := syntheticPositive[rng.Intn(len(syntheticPositive))]
			title, body = t.title, t.body
			rating = 5
			if rng.Intn(3) == 0 {
				rating = 4
			}
		case roll < 7:
			t := syntheticNeutral[rng.Intn(len(syntheticNeutral))]
			title, body = t.title, t.body
			rating = 3
		default:
			t := syntheticNegative[rng.Intn(len(syntheticNegative))]
			title, body = t.title, t.body
			rating = 1
			if rng.Intn(2) == 0 {
				rating = 2
			}
		}

		reviews = append(reviews, RawReview{
			"review_id":         fmt.Sprintf("%s_syn_%d", productID, i),
			"rating":            rating,
			"review_title":      title,
			"review_text":       body,
			"author":            syntheticAuthors[rng.Intn(len(syntheticAuthors))],
			"review_date":       base.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02"),
			"verified_purchase": rng.Intn(4) != 0,
			"helpful_votes":     rng.Intn(25),
		})
	}

	product := map[string]any{
		"title":          fmt.Sprintf("Product %s", productID),
		"average_rating": averageSyntheticRating(reviews),
		"total_reviews":  len(reviews),
	}

	return &Response{Success: true, Reviews: reviews, Product: product}, nil
}

func averageSyntheticRating(reviews []RawReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		if f, ok := r["rating"].(float64); ok {
			sum += f
		}
	}
	return sum / float64(len(reviews))
}
