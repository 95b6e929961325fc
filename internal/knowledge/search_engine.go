package knowledge

import (
	"context"
	"strings"

	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/granitehub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// DefaultTopK 默认检索数量
const DefaultTopK = 4

// SearchEngine 检索引擎：向量化查询 -> 索引检索 -> 组装结果
type SearchEngine struct {
	corpus   *CorpusStore
	embedder Embedder
	logger   *zap.Logger
}

// NewSearchEngine 创建检索引擎
func NewSearchEngine(corpus *CorpusStore, embedder Embedder) *SearchEngine {
	return &SearchEngine{
		corpus:   corpus,
		embedder: embedder,
		logger:   logger.GetLogger(),
	}
}

// Query 检索与查询文本最相关的topK个分块，按距离升序返回
// 空语料库直接返回空结果，不触发向量化调用
func (e *SearchEngine) Query(ctx context.Context, text string, topK int) ([]QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewBadRequest("查询文本不能为空")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	if e.corpus.Size() == 0 {
		return nil, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, apperrors.NewEmbeddingFailed(err)
	}
	if len(vectors) == 0 {
		return nil, apperrors.NewEmbeddingFailed(nil)
	}

	results := e.corpus.Search(vectors[0], topK)
	e.logger.Debug("检索完成",
		zap.Int("top_k", topK),
		zap.Int("hits", len(results)))
	return results, nil
}
