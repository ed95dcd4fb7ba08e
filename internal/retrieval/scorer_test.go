package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunksOf(texts ...string) []Chunk {
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{Index: i, Text: text}
	}
	return chunks
}

func TestScorer_RanksByRelevance(t *testing.T) {
	chunks := chunksOf(
		"The cat sat on the mat.",
		"Invoices are due within thirty days. Late invoices incur a fee.",
		"Payment terms: invoices are paid by bank transfer.",
		"Nothing relevant here at all.",
	)

	scored := NewScorer().Score("When are invoices due?", chunks)

	require.Len(t, scored, 2)
	assert.Equal(t, 1, scored[0].Index)
	assert.Equal(t, 2, scored[1].Index)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestScorer_CapsAtThreePositive(t *testing.T) {
	chunks := chunksOf("apple one", "apple two", "apple three", "apple four", "apple five", "pear")

	scored := NewScorer().Score("apple", chunks)

	require.Len(t, scored, MaxScoredChunks)
	for _, s := range scored {
		assert.Greater(t, s.Score, 0.0)
	}
}

func TestScorer_TiesKeepChunkOrder(t *testing.T) {
	chunks := chunksOf("nothing", "budget", "other", "budget", "budget")

	scored := NewScorer().Score("budget", chunks)

	require.Len(t, scored, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{scored[0].Index, scored[1].Index, scored[2].Index})
	assert.Equal(t, scored[0].Score, scored[2].Score)
}

func TestScorer_CaseInsensitive(t *testing.T) {
	scored := NewScorer().Score("REVENUE", chunksOf("Revenue grew", "costs fell"))

	require.Len(t, scored, 1)
	assert.Equal(t, 0, scored[0].Index)
}

func TestScorer_NoMatch(t *testing.T) {
	scorer := NewScorer()
	chunks := chunksOf("alpha beta", "gamma delta")

	assert.Empty(t, scorer.Score("zeta", chunks))
	assert.Empty(t, scorer.Score("what is the", chunks))
	assert.Empty(t, scorer.Score("", chunks))
	assert.Empty(t, scorer.Score("alpha", nil))
}

func TestScorer_RepeatedTermsWeighMore(t *testing.T) {
	chunks := chunksOf("risk once", "risk risk risk", "no match")

	scored := NewScorer().Score("risk", chunks)

	require.Len(t, scored, 2)
	assert.Equal(t, 1, scored[0].Index)
	assert.InDelta(t, 3*scored[1].Score, scored[0].Score, 1e-9)
}
