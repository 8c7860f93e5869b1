package themes

import (
	"fmt"
	"testing"

	"github.com/ppiankov/reviewlens/internal/model"
)

func ratedReview(id, body string, rating float64) model.NormalizedReview {
	return model.NormalizedReview{ID: id, Body: body, Rating: rating, HasRating: true}
}

func TestExtractEmptyCorpus(t *testing.T) {
	if themes := Extract(nil, 5); len(themes) != 0 {
		t.Errorf("expected no themes, got %v", themes)
	}
	// Reviews whose text is too short to analyze count as empty corpus.
	reviews := []model.NormalizedReview{
		ratedReview("a", "ok", 4),
		ratedReview("b", "", 3),
	}
	if themes := Extract(reviews, 5); len(themes) != 0 {
		t.Errorf("expected no themes from trivial texts, got %v", themes)
	}
}

func TestExtractSmallCorpusUsesPatterns(t *testing.T) {
	reviews := []model.NormalizedReview{
		ratedReview("a", "The build quality is excellent and the material feels durable.", 5),
		ratedReview("b", "Delivery was late and the packaging arrived damaged.", 2),
		ratedReview("c", "Great value for the price, very affordable option.", 4),
	}

	themes := Extract(reviews, 5)
	if len(themes) == 0 {
		t.Fatal("expected pattern themes")
	}

	labels := map[string]model.Theme{}
	for _, th := range themes {
		labels[th.Label] = th
	}
	if _, ok := labels["quality"]; !ok {
		t.Errorf("missing quality theme, got %v", themes)
	}
	if _, ok := labels["delivery"]; !ok {
		t.Errorf("missing delivery theme, got %v", themes)
	}
	if th, ok := labels["price"]; ok && th.Sentiment != model.SentimentPositive {
		t.Errorf("price theme sentiment = %s, want positive", th.Sentiment)
	}
	if th, ok := labels["delivery"]; ok && th.Sentiment != model.SentimentNegative {
		t.Errorf("delivery theme sentiment = %s, want negative", th.Sentiment)
	}
}

func clusteringCorpus() []model.NormalizedReview {
	var reviews []model.NormalizedReview
	batteryTexts := []string{
		"The battery life is outstanding, lasts two full days of heavy usage.",
		"Battery drains quickly when gaming but charging speed is decent.",
		"Impressive battery performance, charging takes about an hour.",
		"Battery capacity degraded noticeably after six months of charging cycles.",
	}
	screenTexts := []string{
		"The screen is bright and sharp, colors look fantastic outdoors.",
		"Display quality is superb, the screen resolution makes text crisp.",
		"Screen scratches easily, the display picked up marks within a week.",
		"Gorgeous display panel, the screen brightness handles sunlight well.",
	}
	for i, text := range batteryTexts {
		reviews = append(reviews, ratedReview(fmt.Sprintf("bat%d", i), text, 4))
	}
	for i, text := range screenTexts {
		reviews = append(reviews, ratedReview(fmt.Sprintf("scr%d", i), text, 4))
	}
	return reviews
}

func TestExtractClustersLargerCorpus(t *testing.T) {
	themes := Extract(clusteringCorpus(), 3)
	if len(themes) == 0 {
		t.Fatal("expected clustered themes")
	}

	total := 0
	for _, th := range themes {
		if th.Label == "" {
			t.Error("theme with empty label")
		}
		if len(th.Keywords) == 0 {
			t.Errorf("theme %q has no keywords", th.Label)
		}
		if th.Mentions == 0 {
			t.Errorf("theme %q has zero mentions", th.Label)
		}
		total += th.Mentions
	}
	if total != 8 {
		t.Errorf("mentions sum = %d, want 8 (every document assigned once)", total)
	}
}

func TestExtractDeterminism(t *testing.T) {
	first := Extract(clusteringCorpus(), 3)
	for run := 0; run < 5; run++ {
		again := Extract(clusteringCorpus(), 3)
		if len(again) != len(first) {
			t.Fatalf("run %d: theme count %d != %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i].Label != first[i].Label || again[i].Mentions != first[i].Mentions {
				t.Fatalf("run %d: theme %d differs: %+v vs %+v", run, i, again[i], first[i])
			}
		}
	}
}

func TestExtractRespectsThemeCount(t *testing.T) {
	themes := Extract(clusteringCorpus(), 2)
	if len(themes) > 2 {
		t.Errorf("got %d themes, want at most 2", len(themes))
	}
}

func TestExtractSortedByMentions(t *testing.T) {
	themes := Extract(clusteringCorpus(), 3)
	for i := 1; i < len(themes); i++ {
		if themes[i].Mentions > themes[i-1].Mentions {
			t.Errorf("themes not sorted by mentions: %v", themes)
		}
	}
}
