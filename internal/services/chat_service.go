package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/granitehub/backend-go/internal/config"
	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/granitehub/backend-go/internal/knowledge"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/granitehub/backend-go/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatStreamRequest 流式聊天请求
// UseRAG 省略时默认开启检索
type ChatStreamRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
	UseRAG    *bool  `json:"use_rag"`
	Mode      string `json:"mode" validate:"omitempty,oneof=general coding teacher summarizer"`
}

// RAGEnabled 检索是否开启
func (r *ChatStreamRequest) RAGEnabled() bool {
	return r.UseRAG == nil || *r.UseRAG
}

// ChatService 聊天服务，对接本地模型服务的OpenAI兼容接口
type ChatService struct {
	client   *openai.Client
	aiConfig *config.AIConfig
	engine   *knowledge.SearchEngine
	sessions *SessionService
	prompts  *PromptBuilder
	logger   *zap.Logger
}

// NewChatService 创建聊天服务
func NewChatService(aiConfig *config.AIConfig, engine *knowledge.SearchEngine, sessions *SessionService, prompts *PromptBuilder) *ChatService {
	cfg := openai.DefaultConfig(aiConfig.APIKey)
	cfg.BaseURL = strings.TrimRight(aiConfig.BaseURL, "/")

	return &ChatService{
		client:   openai.NewClientWithConfig(cfg),
		aiConfig: aiConfig,
		engine:   engine,
		sessions: sessions,
		prompts:  prompts,
		logger:   logger.GetLogger(),
	}
}

// ChatStream 执行一次流式聊天
// 每产生一段增量文本调用一次onDelta；返回完整回答
// 回答非空时将本轮 user/assistant 消息写入会话历史
func (s *ChatService) ChatStream(ctx context.Context, req *ChatStreamRequest, onDelta func(string) error) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", apperrors.NewBadRequest("消息不能为空")
	}

	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = ModeGeneral
	}
	metrics.ChatRequests.WithLabelValues(mode).Inc()

	// 检索失败降级为无上下文，不中断聊天
	var hits []knowledge.QueryResult
	if req.RAGEnabled() {
		var err error
		hits, err = s.engine.Query(ctx, message, knowledge.DefaultTopK)
		if err != nil {
			s.logger.Warn("检索失败，跳过RAG上下文", zap.Error(err))
			hits = nil
		}
	}

	historyPrompt := s.sessions.FormatForPrompt(req.SessionID)
	prompt := s.prompts.Build(historyPrompt, message, hits, mode)

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: s.aiConfig.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.aiConfig.MaxTokens,
		Temperature: float32(s.aiConfig.Temperature),
		TopP:        float32(s.aiConfig.TopP),
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeExternalService, "模型服务请求失败", 502, err)
	}
	defer stream.Close()

	var collected strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeExternalService, "模型流式响应中断", 502, err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := SanitizeStreamText(resp.Choices[0].Delta.Content)
		if delta == "" {
			continue
		}
		collected.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return "", err
			}
		}
	}

	answer := strings.TrimSpace(collected.String())
	if answer != "" {
		s.sessions.Append(req.SessionID, "user", message)
		s.sessions.Append(req.SessionID, "assistant", answer)
	}

	s.logger.Info("聊天完成",
		zap.String("session_id", req.SessionID),
		zap.String("mode", mode),
		zap.Bool("use_rag", req.RAGEnabled()),
		zap.Int("rag_hits", len(hits)),
		zap.Int("answer_chars", len(answer)))
	return answer, nil
}
