package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, vectors map[string][]float32, chunks []string, source string) (*SearchEngine, *fakeEmbedder) {
	t.Helper()

	embedder := &fakeEmbedder{vecFn: func(text string) []float32 { return vectors[text] }}
	store := NewCorpusStore(embedder)
	if len(chunks) > 0 {
		_, err := store.Insert(context.Background(), chunks, source)
		require.NoError(t, err)
	}
	return NewSearchEngine(store, embedder), embedder
}

func TestSearchEngine_EmptyCorpusShortCircuits(t *testing.T) {
	engine, embedder := newTestEngine(t, nil, nil, "")

	results, err := engine.Query(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
	// 空语料库不触发向量化调用
	assert.Equal(t, 0, embedder.callCount())
}

func TestSearchEngine_ExactMatchScoresZero(t *testing.T) {
	vectors := map[string][]float32{
		"chunk one":   {1, 0, 0},
		"chunk two":   {0, 1, 0},
		"chunk three": {0, 0, 1},
		"chunk four":  {1, 1, 1},
		"my query":    {0, 1, 0}, // 与chunk two完全一致
	}
	engine, _ := newTestEngine(t, vectors,
		[]string{"chunk one", "chunk two", "chunk three", "chunk four"}, "doc")

	results, err := engine.Query(context.Background(), "my query", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk two", results[0].Text)
	assert.Equal(t, float32(0), results[0].Score)
	assert.Equal(t, "doc", results[0].Source)
}

func TestSearchEngine_ResultsNonDecreasing(t *testing.T) {
	vectors := map[string][]float32{
		"a": {0, 0}, "b": {3, 0}, "c": {1, 0}, "d": {2, 0},
		"q": {0, 0},
	}
	engine, _ := newTestEngine(t, vectors, []string{"a", "b", "c", "d"}, "doc")

	results, err := engine.Query(context.Background(), "q", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchEngine_TopKLargerThanCorpus(t *testing.T) {
	vectors := map[string][]float32{
		"x": {1, 0}, "y": {0, 1},
		"q": {0, 0},
	}
	engine, _ := newTestEngine(t, vectors, []string{"x", "y"}, "doc")

	results, err := engine.Query(context.Background(), "q", 100)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// 每个分块至多出现一次
	seen := map[string]bool{}
	for _, r := range results {
		assert.False(t, seen[r.Text])
		seen[r.Text] = true
	}
}

func TestSearchEngine_EmptyQueryRejected(t *testing.T) {
	engine, _ := newTestEngine(t, map[string][]float32{"x": {1}}, []string{"x"}, "doc")

	_, err := engine.Query(context.Background(), "   ", 4)
	assert.Error(t, err)
}

func TestSearchEngine_DefaultTopK(t *testing.T) {
	vectors := map[string][]float32{
		"a": {1}, "b": {2}, "c": {3}, "d": {4}, "e": {5}, "f": {6},
		"q": {0},
	}
	engine, _ := newTestEngine(t, vectors, []string{"a", "b", "c", "d", "e", "f"}, "doc")

	results, err := engine.Query(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}
