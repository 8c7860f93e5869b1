package insight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/reviewlens/internal/model"
)

func newTestAggregator() *Aggregator {
	return New(model.AnalysisConfig{TopKeywords: 15, SampleCount: 3})
}

func scoredReview(id string, rating float64, body, label string, compound float64) model.NormalizedReview {
	return model.NormalizedReview{
		ID:        id,
		Rating:    rating,
		HasRating: true,
		Body:      body,
		Sentiment: &model.SentimentVerdict{Label: label, Compound: compound},
	}
}

func testInput() Input {
	reviews := []model.NormalizedReview{
		scoredReview("a", 5, "Excellent battery life and great screen quality.", model.SentimentPositive, 0.8),
		scoredReview("b", 4, "Good value, battery could be better.", model.SentimentPositive, 0.4),
		scoredReview("c", 3, "Arrived on time, does the job.", model.SentimentNeutral, 0.0),
		scoredReview("d", 1, "Terrible build quality, broke within a week.", model.SentimentNegative, -0.7),
	}
	return Input{
		Fetch: &model.FetchResult{
			Product:      &model.ProductInfo{ProductID: "B0TESTASIN", Title: "Test Product"},
			Locale:       "US",
			Source:       "apify",
			LocalesTried: []string{"US"},
		},
		Reviews:      reviews,
		TotalReviews: 5,
		BotStats:     model.BotStats{Total: 5, GenuineCount: 4, BotCount: 1, BotPercentage: 20},
		SentimentStats: model.SentimentStats{
			Distribution: map[string]int{
				model.SentimentPositive: 2,
				model.SentimentNeutral:  1,
				model.SentimentNegative: 1,
			},
			MeanCompound: 0.125,
		},
	}
}

func TestBuildReportBody(t *testing.T) {
	res := newTestAggregator().Build(testInput())

	if res.ProductID != "B0TESTASIN" {
		t.Errorf("ProductID = %q", res.ProductID)
	}
	if res.TotalReviews != 5 || res.AnalyzedReviews != 4 {
		t.Errorf("counts = %d/%d, want 5 fetched / 4 analyzed", res.TotalReviews, res.AnalyzedReviews)
	}

	wantDist := map[string]int{"1": 1, "2": 0, "3": 1, "4": 1, "5": 1}
	if !reflect.DeepEqual(res.RatingDistribution, wantDist) {
		t.Errorf("rating distribution = %v, want %v", res.RatingDistribution, wantDist)
	}
	if res.AverageRating != 3.25 {
		t.Errorf("average rating = %v, want 3.25", res.AverageRating)
	}
	if len(res.Insights) == 0 {
		t.Error("expected at least one insight")
	}
}

func TestBuildRatingBuckets(t *testing.T) {
	ratings := []float64{5, 5, 5, 4, 4, 3, 2, 2, 1, 1}
	labels := map[float64]string{
		5: model.SentimentPositive, 4: model.SentimentPositive,
		3: model.SentimentNeutral,
		2: model.SentimentNegative, 1: model.SentimentNegative,
	}

	var reviews []model.NormalizedReview
	for i, r := range ratings {
		reviews = append(reviews, scoredReview(
			string(rune('a'+i)), r,
			"The product works fine for what it costs.",
			labels[r], (r-3)/4,
		))
	}

	in := Input{
		Fetch:          &model.FetchResult{Product: &model.ProductInfo{ProductID: "B0TESTASIN"}},
		Reviews:        reviews,
		TotalReviews:   len(reviews),
		SentimentStats: model.SentimentStats{Distribution: map[string]int{}},
	}
	res := newTestAggregator().Build(in)

	wantDist := map[string]int{"1": 2, "2": 2, "3": 1, "4": 2, "5": 3}
	if !reflect.DeepEqual(res.RatingDistribution, wantDist) {
		t.Errorf("rating distribution = %v, want %v", res.RatingDistribution, wantDist)
	}
	if res.AverageRating != 3.2 {
		t.Errorf("average rating = %v, want 3.2", res.AverageRating)
	}
}

func TestBuildExcludesUnratedFromDistribution(t *testing.T) {
	in := testInput()
	in.Reviews = append(in.Reviews, model.NormalizedReview{
		ID:        "nr",
		Body:      "No star rating came with this one.",
		Sentiment: &model.SentimentVerdict{Label: model.SentimentNeutral},
	})

	res := newTestAggregator().Build(in)

	total := 0
	for _, n := range res.RatingDistribution {
		total += n
	}
	if total != 4 {
		t.Errorf("distribution sums to %d, want 4 rated reviews", total)
	}
	if res.AverageRating != 3.25 {
		t.Errorf("average rating = %v, unrated review must not shift it", res.AverageRating)
	}
}

func TestBuildSamples(t *testing.T) {
	res := newTestAggregator().Build(testInput())

	if len(res.PositiveSamples) != 2 {
		t.Fatalf("positive samples = %d, want 2", len(res.PositiveSamples))
	}
	if res.PositiveSamples[0].ID != "a" {
		t.Errorf("strongest positive = %q, want a", res.PositiveSamples[0].ID)
	}
	if len(res.NegativeSamples) != 1 || res.NegativeSamples[0].ID != "d" {
		t.Errorf("negative samples = %v", res.NegativeSamples)
	}
	if len(res.NeutralSamples) != 1 {
		t.Errorf("neutral samples = %v", res.NeutralSamples)
	}
}

func TestBuildTopKeywords(t *testing.T) {
	res := newTestAggregator().Build(testInput())

	if len(res.TopKeywords) == 0 {
		t.Fatal("expected keywords")
	}
	found := false
	for _, kw := range res.TopKeywords {
		if kw.Word == "battery" {
			found = true
			if kw.Count != 2 {
				t.Errorf("battery count = %d, want 2", kw.Count)
			}
		}
		if kw.Weight <= 0 || kw.Weight > 1 {
			t.Errorf("keyword %q weight %.3f out of range", kw.Word, kw.Weight)
		}
	}
	if !found {
		t.Errorf("battery missing from keywords %v", res.TopKeywords)
	}
}

func TestBuildIdempotent(t *testing.T) {
	agg := newTestAggregator()
	first := agg.Build(testInput())
	second := agg.Build(testInput())

	// ReportID and timestamps are assigned by the pipeline, not here; the
	// body must match exactly.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestInsightRules(t *testing.T) {
	t.Run("bot warning", func(t *testing.T) {
		in := testInput()
		in.BotStats.BotPercentage = 45
		res := newTestAggregator().Build(in)
		if !containsSubstring(res.Insights, "bot-like") {
			t.Errorf("expected bot warning in %v", res.Insights)
		}
	})

	t.Run("fallback notice", func(t *testing.T) {
		in := testInput()
		in.Fetch.Fallback = true
		res := newTestAggregator().Build(in)
		if !containsSubstring(res.Insights, "generated sample data") {
			t.Errorf("expected fallback notice in %v", res.Insights)
		}
	})

	t.Run("rating text mismatch", func(t *testing.T) {
		in := testInput()
		for i := range in.Reviews {
			in.Reviews[i].Rating = 5
		}
		in.SentimentStats.MeanCompound = -0.3
		res := newTestAggregator().Build(in)
		if !containsSubstring(res.Insights, "disagree") {
			t.Errorf("expected mismatch insight in %v", res.Insights)
		}
	})

	t.Run("default insight", func(t *testing.T) {
		in := Input{
			Fetch: &model.FetchResult{Product: &model.ProductInfo{ProductID: "B0TESTASIN"}},
			SentimentStats: model.SentimentStats{
				Distribution: map[string]int{},
			},
		}
		res := newTestAggregator().Build(in)
		if len(res.Insights) != 1 {
			t.Errorf("expected exactly the default insight, got %v", res.Insights)
		}
	})
}

func TestDigest(t *testing.T) {
	res := newTestAggregator().Build(testInput())
	d := Digest(res)
	if d == "" {
		t.Fatal("empty digest")
	}
	for _, want := range []string{"B0TESTASIN", "average rating", "Sentiment"} {
		if !strings.Contains(d, want) {
			t.Errorf("digest missing %q:\n%s", want, d)
		}
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
