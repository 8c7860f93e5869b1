// Package themes discovers discussion topics in a review corpus. Large
// corpora go through tf-idf vectorization and k-means clustering; small ones
// fall back to fixed keyword patterns. Both paths are deterministic.
package themes

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/util"
)

// minCorpusForClustering is the number of non-trivial texts below which the
// pattern fallback is used instead of clustering.
const minCorpusForClustering = 5

const (
	maxIterations    = 20
	keywordsPerTheme = 5
)

// patternThemes drive the small-corpus fallback.
var patternThemes = []struct {
	label    string
	keywords []string
}{
	{"quality", []string{"quality", "build", "material", "durable", "sturdy", "flimsy", "cheap"}},
	{"price", []string{"price", "value", "money", "expensive", "affordable", "cost", "worth"}},
	{"performance", []string{"performance", "speed", "fast", "slow", "battery", "power", "lag"}},
	{"delivery", []string{"delivery", "shipping", "arrived", "package", "packaging", "late"}},
	{"design", []string{"design", "look", "color", "style", "size", "weight", "compact"}},
	{"ease of use", []string{"easy", "simple", "setup", "install", "instructions", "intuitive"}},
	{"customer service", []string{"service", "support", "warranty", "refund", "replacement", "seller"}},
}

// Extract discovers up to themeCount themes over the corpus. Reviews without
// analyzable text are ignored; an empty corpus yields no themes.
func Extract(reviews []model.NormalizedReview, themeCount int) []model.Theme {
	if themeCount <= 0 {
		return nil
	}

	var docs []document
	for i := range reviews {
		tokens := util.Tokenize(reviews[i].Text())
		if len(tokens) < 3 {
			continue
		}
		docs = append(docs, document{review: &reviews[i], tokens: tokens})
	}
	if len(docs) == 0 {
		return nil
	}

	var themes []model.Theme
	if len(docs) < minCorpusForClustering {
		themes = patternExtract(docs)
	} else {
		themes = clusterExtract(docs, themeCount)
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Mentions > themes[j].Mentions
	})
	if len(themes) > themeCount {
		themes = themes[:themeCount]
	}
	return themes
}

type document struct {
	review *model.NormalizedReview
	tokens []string
}

// patternExtract matches each document against the fixed keyword sets.
func patternExtract(docs []document) []model.Theme {
	var themes []model.Theme

	for _, pt := range patternThemes {
		var members []*model.NormalizedReview
		hit := map[string]bool{}

		for _, doc := range docs {
			text := strings.ToLower(doc.review.Text())
			matched := false
			for _, kw := range pt.keywords {
				if strings.Contains(text, kw) {
					matched = true
					hit[kw] = true
				}
			}
			if matched {
				members = append(members, doc.review)
			}
		}

		if len(members) == 0 {
			continue
		}

		keywords := make([]string, 0, len(hit))
		for _, kw := range pt.keywords {
			if hit[kw] {
				keywords = append(keywords, kw)
			}
		}

		themes = append(themes, model.Theme{
			Label:     pt.label,
			Keywords:  keywords,
			Mentions:  len(members),
			Sentiment: memberSentiment(members),
		})
	}
	return themes
}

// clusterExtract vectorizes documents with tf-idf and groups them with
// k-means. Seeding is fixed so the same corpus always clusters the same way.
func clusterExtract(docs []document, themeCount int) []model.Theme {
	vocab, vectors := vectorize(docs)

	k := themeCount
	if max := len(docs) / 2; k > max {
		k = max
	}
	if k < 1 {
		k = 1
	}

	assignment := kmeans(vectors, k)

	themes := make([]model.Theme, 0, k)
	for c := 0; c < k; c++ {
		var members []*model.NormalizedReview
		centroid := make([]float64, len(vocab))
		for i, a := range assignment {
			if a != c {
				continue
			}
			members = append(members, docs[i].review)
			for t, w := range vectors[i] {
				centroid[t] += w
			}
		}
		if len(members) == 0 {
			continue
		}

		keywords := topTerms(centroid, vocab, keywordsPerTheme)
		if len(keywords) == 0 {
			continue
		}

		themes = append(themes, model.Theme{
			Label:     keywords[0],
			Keywords:  keywords,
			Mentions:  len(members),
			Sentiment: memberSentiment(members),
		})
	}
	return themes
}

// vectorize builds the vocabulary and one tf-idf vector per document.
func vectorize(docs []document) ([]string, [][]float64) {
	index := map[string]int{}
	var vocab []string
	df := map[string]int{}

	for _, doc := range docs {
		seen := map[string]bool{}
		for _, tok := range doc.tokens {
			if _, ok := index[tok]; !ok {
				index[tok] = len(vocab)
				vocab = append(vocab, tok)
			}
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		counts := map[string]float64{}
		for _, tok := range doc.tokens {
			counts[tok]++
		}
		vec := make([]float64, len(vocab))
		for tok, count := range counts {
			tf := count / float64(len(doc.tokens))
			idf := math.Log(n/float64(df[tok])) + 1
			vec[index[tok]] = tf * idf
		}
		normalizeVec(vec)
		vectors[i] = vec
	}
	return vocab, vectors
}

// kmeans assigns each vector to one of k clusters. Fixed seed, bounded
// iterations, centroid init by evenly spaced picks over the corpus.
func kmeans(vectors [][]float64, k int) []int {
	n := len(vectors)
	dim := 0
	if n > 0 {
		dim = len(vectors[0])
	}

	rng := rand.New(rand.NewSource(42))
	centroids := make([][]float64, k)
	step := n / k
	for c := 0; c < k; c++ {
		pick := c * step
		if pick >= n {
			pick = rng.Intn(n)
		}
		centroids[c] = append([]float64(nil), vectors[pick]...)
	}

	assignment := make([]int, n)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best, bestDist := 0, math.MaxFloat64
			for c, centroid := range centroids {
				if d := sqDist(vec, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, vec := range vectors {
			c := assignment[i]
			counts[c]++
			for t, w := range vec {
				next[c][t] += w
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Re-seed empty clusters deterministically.
				next[c] = append([]float64(nil), vectors[rng.Intn(n)]...)
				continue
			}
			for t := range next[c] {
				next[c][t] /= float64(counts[c])
			}
		}
		centroids = next
	}
	return assignment
}

func topTerms(centroid []float64, vocab []string, limit int) []string {
	type scored struct {
		term   string
		weight float64
	}
	var terms []scored
	for t, w := range centroid {
		if w > 0 {
			terms = append(terms, scored{vocab[t], w})
		}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if terms[i].weight != terms[j].weight {
			return terms[i].weight > terms[j].weight
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	out := make([]string, len(terms))
	for i, s := range terms {
		out[i] = s.term
	}
	return out
}

// memberSentiment derives a theme label from the mean rating of rated
// member reviews.
func memberSentiment(members []*model.NormalizedReview) string {
	var sum float64
	var rated int
	for _, m := range members {
		if m.HasRating {
			sum += m.Rating
			rated++
		}
	}
	if rated == 0 {
		return model.SentimentNeutral
	}
	switch mean := sum / float64(rated); {
	case mean >= 4:
		return model.SentimentPositive
	case mean <= 2.5:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func normalizeVec(vec []float64) {
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
