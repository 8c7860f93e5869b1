package sentiment

// patternEntry is one word in the pattern lexicon: polarity on [-1, 1] and
// subjectivity on [0, 1].
type patternEntry struct {
	polarity     float64
	subjectivity float64
}

// patterns is the second, independent model. Deliberately smaller and flatter
// than the valence lexicon so the two models disagree in interesting ways on
// borderline text.
var patterns = map[string]patternEntry{
	"excellent": {0.9, 1.0}, "amazing": {0.8, 0.9}, "outstanding": {0.9, 0.9},
	"fantastic": {0.8, 0.9}, "perfect": {1.0, 1.0}, "awesome": {0.8, 0.9},
	"wonderful": {0.8, 0.9}, "great": {0.8, 0.75}, "good": {0.7, 0.6},
	"nice": {0.6, 0.9}, "happy": {0.8, 1.0}, "love": {0.5, 0.6},
	"best": {1.0, 0.3}, "better": {0.5, 0.5}, "solid": {0.4, 0.4},
	"reliable": {0.5, 0.5}, "comfortable": {0.5, 0.7}, "easy": {0.4, 0.8},
	"impressive": {0.7, 0.9}, "beautiful": {0.85, 1.0}, "smooth": {0.4, 0.6},
	"worth": {0.3, 0.3}, "recommend": {0.5, 0.4}, "fine": {0.3, 0.6},
	"decent": {0.3, 0.6}, "okay": {0.2, 0.5}, "satisfied": {0.6, 0.8},
	"durable": {0.5, 0.4}, "quality": {0.3, 0.3}, "fast": {0.3, 0.4},

	"bad": {-0.7, 0.67}, "poor": {-0.6, 0.7}, "terrible": {-1.0, 1.0},
	"horrible": {-1.0, 1.0}, "awful": {-1.0, 1.0}, "worst": {-1.0, 0.3},
	"worse": {-0.5, 0.5}, "disappointing": {-0.6, 0.7}, "disappointed": {-0.75, 0.75},
	"useless": {-0.7, 0.6}, "broken": {-0.6, 0.5}, "defective": {-0.7, 0.6},
	"cheap": {-0.4, 0.7}, "flimsy": {-0.6, 0.7}, "slow": {-0.3, 0.4},
	"waste": {-0.7, 0.6}, "hate": {-0.8, 0.9}, "annoying": {-0.6, 0.8},
	"frustrating": {-0.7, 0.8}, "mediocre": {-0.3, 0.6}, "overpriced": {-0.5, 0.7},
	"misleading": {-0.6, 0.7}, "fake": {-0.7, 0.6}, "damaged": {-0.5, 0.5},
	"faulty": {-0.6, 0.5}, "weak": {-0.4, 0.5}, "pathetic": {-0.8, 0.9},
}

// Polarity scores text with the pattern lexicon. Returns the mean polarity
// and mean subjectivity of matched words; (0, 0) when nothing matches.
func Polarity(text string) (polarity, subjectivity float64) {
	words := splitWords(text)
	if len(words) == 0 {
		return 0, 0
	}

	var polSum, subSum float64
	var matched int

	for i, w := range words {
		e, ok := patterns[w]
		if !ok {
			continue
		}
		p := e.polarity
		for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
			if negations[words[j]] {
				p = -p * 0.5
				break
			}
		}
		polSum += p
		subSum += e.subjectivity
		matched++
	}

	if matched == 0 {
		return 0, 0
	}
	return polSum / float64(matched), subSum / float64(matched)
}
