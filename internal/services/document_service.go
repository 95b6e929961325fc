package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/granitehub/backend-go/internal/knowledge"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/granitehub/backend-go/internal/metrics"
	"go.uber.org/zap"
)

// DocumentService 文档入库服务：提取 -> 分块 -> 向量化入库
type DocumentService struct {
	parser  *knowledge.FileParserManager
	chunker *knowledge.Chunker
	corpus  *knowledge.CorpusStore
	logger  *zap.Logger
}

// NewDocumentService 创建文档服务
func NewDocumentService(parser *knowledge.FileParserManager, chunker *knowledge.Chunker, corpus *knowledge.CorpusStore) *DocumentService {
	return &DocumentService{
		parser:  parser,
		chunker: chunker,
		corpus:  corpus,
		logger:  logger.GetLogger(),
	}
}

// AddDocumentFromText 将原始文本加入语料库，返回新增分块数量
// 空文本是合法的空操作；只有维度不匹配/向量化失败会作为错误返回
func (s *DocumentService) AddDocumentFromText(ctx context.Context, text, source string) (int, error) {
	if strings.TrimSpace(text) == "" {
		s.logger.Info("无可索引文本", zap.String("source", source))
		return 0, nil
	}

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		s.logger.Info("文本未产生分块", zap.String("source", source))
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	added, err := s.corpus.Insert(ctx, texts, source)
	if err != nil {
		return 0, err
	}

	metrics.DocumentsIngested.Inc()
	metrics.ChunksIndexed.Add(float64(added))
	metrics.CorpusChunks.Set(float64(s.corpus.Size()))
	return added, nil
}

// AddDocumentFromFile 从文件读取文本并入库
// 提取失败降级为空文本，最终表现为0分块的空操作
func (s *DocumentService) AddDocumentFromFile(ctx context.Context, reader io.Reader, filename, source string) (int, error) {
	if strings.TrimSpace(source) == "" {
		source = filepath.Base(filename)
	}

	text := s.parser.ExtractText(reader, filename)
	return s.AddDocumentFromText(ctx, text, source)
}

// CorpusSize 返回语料库分块总数
func (s *DocumentService) CorpusSize() int {
	return s.corpus.Size()
}
