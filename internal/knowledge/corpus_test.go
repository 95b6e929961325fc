package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder 确定性的测试用向量化实现，可在并发测试中安全使用
type fakeEmbedder struct {
	dim   int
	calls atomic.Int64
	vecFn func(text string) []float32
	err   error
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if f.vecFn != nil {
			out[i] = f.vecFn(text)
			continue
		}
		v := make([]float32, f.dim)
		v[0] = float32(len(text))
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Ready() bool { return true }

func (f *fakeEmbedder) callCount() int { return int(f.calls.Load()) }

func TestCorpusStore_InsertAlignsTriple(t *testing.T) {
	embedder := &fakeEmbedder{dim: 4}
	store := NewCorpusStore(embedder)

	added, err := store.Insert(context.Background(), []string{"alpha", "beta"}, "doc1")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, store.Size())
	assert.Equal(t, 4, store.Dim())

	added, err = store.Insert(context.Background(), []string{"gamma"}, "doc2")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 3, store.Size())

	// 向量化整批只调用一次
	assert.Equal(t, 2, embedder.callCount())
}

func TestCorpusStore_InsertEmptyIsNoop(t *testing.T) {
	embedder := &fakeEmbedder{dim: 4}
	store := NewCorpusStore(embedder)

	added, err := store.Insert(context.Background(), nil, "doc")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, store.Size())
	// 空输入不触发向量化
	assert.Equal(t, 0, embedder.callCount())
}

func TestCorpusStore_DimensionMismatchRejectedAtomically(t *testing.T) {
	embedder := &fakeEmbedder{dim: 768}
	store := NewCorpusStore(embedder)

	_, err := store.Insert(context.Background(), []string{"first"}, "doc1")
	require.NoError(t, err)
	require.Equal(t, 1, store.Size())

	// 后续批次维度384与已建立的768不符，整批拒绝
	embedder.dim = 384
	added, err := store.Insert(context.Background(), []string{"second", "third"}, "doc2")
	assert.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDimensionMismatch))
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, store.Size())
	assert.Equal(t, 768, store.Dim())
}

func TestCorpusStore_EmbedFailureLeavesCorpusUntouched(t *testing.T) {
	embedder := &fakeEmbedder{dim: 8, err: errors.New("provider down")}
	store := NewCorpusStore(embedder)

	added, err := store.Insert(context.Background(), []string{"chunk"}, "doc")
	assert.Error(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, store.Size())
	assert.Equal(t, 0, store.Dim())
}

func TestCorpusStore_Get(t *testing.T) {
	store := NewCorpusStore(&fakeEmbedder{dim: 2})

	_, err := store.Insert(context.Background(), []string{"one", "two"}, "src")
	require.NoError(t, err)

	chunk, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, chunk.ID)
	assert.Equal(t, "two", chunk.Text)
	assert.Equal(t, "src", chunk.Source)

	_, ok = store.Get(2)
	assert.False(t, ok)
	_, ok = store.Get(-1)
	assert.False(t, ok)
}

func TestCorpusStore_SearchBeforeFirstInsert(t *testing.T) {
	store := NewCorpusStore(&fakeEmbedder{dim: 2})

	results := store.Search([]float32{1, 2}, 5)
	assert.Empty(t, results)
}

func TestCorpusStore_SearchReturnsAlignedMetadata(t *testing.T) {
	vectors := map[string][]float32{
		"red":   {1, 0},
		"green": {0, 1},
		"blue":  {5, 5},
	}
	embedder := &fakeEmbedder{vecFn: func(text string) []float32 { return vectors[text] }}
	store := NewCorpusStore(embedder)

	_, err := store.Insert(context.Background(), []string{"red", "green"}, "colors_a")
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), []string{"blue"}, "colors_b")
	require.NoError(t, err)

	results := store.Search([]float32{0, 1}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "green", results[0].Text)
	assert.Equal(t, "colors_a", results[0].Source)
	assert.Equal(t, float32(0), results[0].Score)
	assert.Equal(t, "red", results[1].Text)
}

// 并发写入与检索交错执行，读取方任何时刻都不能观察到撕裂的三元组
// 配合 -race 运行
func TestCorpusStore_ConcurrentInsertAndQuery(t *testing.T) {
	const (
		writers       = 8
		readers       = 8
		rounds        = 50
		chunksPerCall = 2
	)

	embedder := &fakeEmbedder{dim: 4}
	store := NewCorpusStore(embedder)
	engine := NewSearchEngine(store, embedder)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			source := fmt.Sprintf("doc%d", w)
			for i := 0; i < rounds; i++ {
				_, err := store.Insert(context.Background(), []string{"alpha", "beta"}, source)
				assert.NoError(t, err)
			}
		}(w)
	}

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				results, err := engine.Query(context.Background(), "alpha", 3)
				assert.NoError(t, err)
				for _, res := range results {
					// 命中必须携带对齐的文本与来源元数据
					assert.NotEmpty(t, res.Text)
					assert.NotEmpty(t, res.Source)
				}

				// 语料库只增不减，最后一个已见分块必须可读
				if size := store.Size(); size > 0 {
					_, ok := store.Get(size - 1)
					assert.True(t, ok)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*rounds*chunksPerCall, store.Size())
}
