package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// MaxScoredChunks caps how many chunks an answer is built from
const MaxScoredChunks = 3

type ScoredChunk struct {
	Chunk
	Score float64
}

// Scorer ranks chunks against a question with TF-IDF, each chunk being one
// document of the corpus.
type Scorer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
	limit        int
}

func NewScorer() *Scorer {
	return &Scorer{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]+`),
		stopwords:    englishStopwords(),
		limit:        MaxScoredChunks,
	}
}

// Score returns at most three chunks with a strictly positive score, best
// first. Equal scores keep the input chunk order.
func (s *Scorer) Score(question string, chunks []Chunk) []ScoredChunk {
	if len(chunks) == 0 {
		return nil
	}

	termFreqs := make([]map[string]int, len(chunks))
	df := make(map[string]int)
	for i, chunk := range chunks {
		tf := make(map[string]int)
		for _, tok := range s.tokenize(chunk.Text) {
			if _, isStop := s.stopwords[tok]; isStop {
				continue
			}
			tf[tok]++
		}
		for tok := range tf {
			df[tok]++
		}
		termFreqs[i] = tf
	}

	n := float64(len(chunks))
	queryTerms := s.tokenize(question)

	scored := make([]ScoredChunk, 0, len(chunks))
	for i, chunk := range chunks {
		score := 0.0
		for _, term := range queryTerms {
			count := termFreqs[i][term]
			if count == 0 {
				continue
			}
			idf := 1 + math.Log(n/(1+float64(df[term])))
			score += float64(count) * idf
		}
		if score > 0 {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if len(scored) > s.limit {
		scored = scored[:s.limit]
	}
	return scored
}

func (s *Scorer) tokenize(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func englishStopwords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "as", "at",
		"be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
		"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
		"same", "she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
		"then", "there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with",
		"would", "you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
