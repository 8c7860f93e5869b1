package sentiment

import (
	"testing"

	"github.com/ppiankov/reviewlens/internal/model"
)

func TestScoreLabels(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"clearly positive", "Excellent product, I love it. Works perfectly and the quality is amazing.", model.SentimentPositive},
		{"clearly negative", "Terrible quality. Broke after a week and the seller refused a refund. Worst purchase ever.", model.SentimentNegative},
		{"no signal", "I received the package on Tuesday.", model.SentimentNeutral},
		{"empty", "", model.SentimentNeutral},
		{"negated positive", "This is not good at all, definitely not worth the price.", model.SentimentNegative},
		{"boosted positive", "Really really great headphones, very comfortable.", model.SentimentPositive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Score(tc.text)
			if v.Label != tc.want {
				t.Errorf("label = %q (compound %.3f), want %q", v.Label, v.Compound, tc.want)
			}
		})
	}
}

func TestScoreDeterminism(t *testing.T) {
	text := "Great value, slightly disappointed with the battery but overall happy."
	first := Score(text)
	for i := 0; i < 10; i++ {
		if got := Score(text); got != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestScoreEmptyText(t *testing.T) {
	v := Score("")
	if v.Label != model.SentimentNeutral || v.Compound != 0 || v.Confidence != 0 {
		t.Errorf("empty text verdict = %+v, want neutral zeros", v)
	}
}

func TestScoreBoundedOutputs(t *testing.T) {
	texts := []string{
		"amazing amazing amazing excellent perfect best wonderful fantastic!!!!",
		"terrible horrible awful worst garbage useless waste scam!!!!",
	}
	for _, text := range texts {
		v := Score(text)
		if v.Compound < -1 || v.Compound > 1 {
			t.Errorf("compound %.3f out of range for %q", v.Compound, text)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			t.Errorf("confidence %.3f out of range for %q", v.Confidence, text)
		}
		if v.Subjectivity < 0 || v.Subjectivity > 1 {
			t.Errorf("subjectivity %.3f out of range for %q", v.Subjectivity, text)
		}
	}
}

func TestBoosterIncreasesIntensity(t *testing.T) {
	plain := Score("good product")
	boosted := Score("very good product")
	if boosted.Compound <= plain.Compound {
		t.Errorf("booster did not raise compound: %.3f vs %.3f", boosted.Compound, plain.Compound)
	}
}

func TestScoreBatch(t *testing.T) {
	reviews := []model.NormalizedReview{
		{ID: "a", Body: "Excellent quality, love it."},
		{ID: "b", Body: "Terrible, broke immediately."},
		{ID: "c", Body: "It arrived on Tuesday."},
	}

	scored, stats := ScoreBatch(reviews)

	for _, r := range scored {
		if r.Sentiment == nil {
			t.Fatalf("review %s missing verdict", r.ID)
		}
	}
	if stats.Distribution[model.SentimentPositive] != 1 ||
		stats.Distribution[model.SentimentNegative] != 1 ||
		stats.Distribution[model.SentimentNeutral] != 1 {
		t.Errorf("distribution = %v, want one of each", stats.Distribution)
	}
	if stats.MeanCompound < -1 || stats.MeanCompound > 1 {
		t.Errorf("mean compound %.3f out of range", stats.MeanCompound)
	}
}

func TestScoreBatchEmpty(t *testing.T) {
	scored, stats := ScoreBatch(nil)
	if len(scored) != 0 {
		t.Errorf("expected no reviews, got %d", len(scored))
	}
	if stats.MeanCompound != 0 || stats.MeanSubjectivity != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}
