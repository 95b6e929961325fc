package knowledge

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/granitehub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// StoredChunk 语料库中的一条已提交分块
type StoredChunk struct {
	ID     int
	Text   string
	Source string
}

// QueryResult 检索结果，score为平方欧氏距离，越小越相似
type QueryResult struct {
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
	Source string  `json:"source"`
}

// CorpusStore 进程内语料库
// 统一持有 (分块文本, 来源标签, 向量索引) 三元组，三者按位置对齐：
// 任意时刻 len(texts) == len(sources) == index.Len()
// 写操作独占、读操作共享，读方不会观察到部分提交的状态
type CorpusStore struct {
	mu       sync.RWMutex
	embedder Embedder
	texts    []string
	sources  []string
	index    *FlatIndex
	logger   *zap.Logger
}

// NewCorpusStore 创建空语料库
// 索引在首次成功插入时按该批向量维度惰性创建
func NewCorpusStore(embedder Embedder) *CorpusStore {
	return &CorpusStore{
		embedder: embedder,
		logger:   logger.GetLogger(),
	}
}

// Insert 将一批分块提交到语料库，返回提交数量
// 整批只调用一次向量化；维度不匹配或向量化失败时不提交任何内容
func (s *CorpusStore) Insert(ctx context.Context, chunks []string, source string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	// 向量化在锁外进行，外部调用可能较慢
	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, apperrors.NewEmbeddingFailed(err)
	}
	if len(embeddings) != len(chunks) {
		return 0, apperrors.NewEmbeddingFailed(
			fmt.Errorf("向量数量与分块数量不一致: %d != %d", len(embeddings), len(chunks)))
	}

	dim := len(embeddings[0])
	if dim == 0 {
		return 0, apperrors.NewEmbeddingFailed(fmt.Errorf("向量维度为0"))
	}
	for _, v := range embeddings {
		if len(v) != dim {
			return 0, apperrors.NewEmbeddingFailed(
				fmt.Errorf("同一批向量维度不一致: %d != %d", len(v), dim))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		s.index = NewFlatIndex(dim)
	} else if s.index.Dim() != dim {
		return 0, apperrors.NewDimensionMismatch(s.index.Dim(), dim)
	}

	if err := s.index.Add(embeddings); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeDimensionMismatch, "索引追加失败", 400, err)
	}
	s.texts = append(s.texts, chunks...)
	for range chunks {
		s.sources = append(s.sources, source)
	}

	s.logger.Info("语料库新增分块",
		zap.Int("chunks", len(chunks)),
		zap.String("source", source),
		zap.Int("total", len(s.texts)))
	return len(chunks), nil
}

// Size 返回已提交的分块数量
func (s *CorpusStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts)
}

// Dim 返回索引维度，索引未初始化时为0
func (s *CorpusStore) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Dim()
}

// Get 按插入序号取回分块
func (s *CorpusStore) Get(id int) (StoredChunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || id >= len(s.texts) {
		return StoredChunk{}, false
	}
	return StoredChunk{ID: id, Text: s.texts[id], Source: s.sources[id]}, true
}

// Search 用查询向量检索最近的k个分块
// 索引未初始化时返回空结果；越界的序号被跳过而不是触发越界访问
func (s *CorpusStore) Search(query []float32, k int) []QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil || len(s.texts) == 0 {
		return nil
	}

	distances, ids := s.index.Search(query, k)

	results := make([]QueryResult, 0, len(ids))
	for i, id := range ids {
		if id < 0 || id >= len(s.texts) {
			continue
		}
		results = append(results, QueryResult{
			Text:   s.texts[id],
			Score:  distances[i],
			Source: s.sources[id],
		})
	}
	return results
}
