package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder 定义文本批量向量化接口
// 实现方为外部模型服务，核心只消费 "texts -> vectors" 能力
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Ready() bool
}

// NoopEmbedder 默认占位实现
type NoopEmbedder struct{}

func (n *NoopEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding provider not configured")
}

func (n *NoopEmbedder) Ready() bool {
	return false
}

// OpenAIEmbedder 通过OpenAI兼容接口访问本地模型服务
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder 创建向量化客户端
// baseURL指向本地模型服务（如Ollama、llama.cpp的OpenAI兼容端点）
func NewOpenAIEmbedder(baseURL, apiKey, model string) Embedder {
	if strings.TrimSpace(baseURL) == "" {
		return &NoopEmbedder{}
	}
	if model == "" {
		model = "granite-embedding:125m"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// EmbedBatch 将整批文本一次性向量化
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.client == nil {
		return nil, errors.New("embedding client not initialized")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("向量化响应数量不匹配: 期望%d, 实际%d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("向量化响应序号越界: %d", item.Index)
		}
		vector := make([]float32, len(item.Embedding))
		copy(vector, item.Embedding)
		embeddings[item.Index] = vector
	}
	return embeddings, nil
}

func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}
