package bootstrap

import (
	"log"
	"os"

	"github.com/granitehub/backend-go/internal/config"
	"github.com/granitehub/backend-go/internal/knowledge"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/granitehub/backend-go/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// App encapsulates the shared services wired at startup.
type App struct {
	Embedder        knowledge.Embedder
	Corpus          *knowledge.CorpusStore
	SearchEngine    *knowledge.SearchEngine
	ParserManager   *knowledge.FileParserManager
	DocumentService *services.DocumentService
	ChatService     *services.ChatService
	SessionService  *services.SessionService
	ExportService   *services.ExportService
}

// Global app instance for controllers to access
var globalApp *App

// GetApp returns the global app instance
func GetApp() *App {
	return globalApp
}

// Init bootstraps configuration, logger and the in-process RAG services
// required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize structured logger.
	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	// Load configuration.
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	// 上传目录
	if err := os.MkdirAll(cfg.FileUpload.UploadPath, 0o755); err != nil {
		return nil, err
	}

	// 外部模型服务（向量化由语料库消费，聊天由ChatService消费）
	embedder := knowledge.NewOpenAIEmbedder(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.EmbedModel)
	if !embedder.Ready() {
		logger.Warn("向量化服务未配置，文档入库与检索将不可用")
	}

	corpus := knowledge.NewCorpusStore(embedder)
	engine := knowledge.NewSearchEngine(corpus, embedder)
	chunker := knowledge.NewChunker(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)

	// OCR引擎未接入，图片提取降级为空文本
	parser := knowledge.NewFileParserManager(nil)

	sessions := services.NewSessionService()
	prompts := services.NewPromptBuilder(cfg.Knowledge.ContextMaxChars)

	app := &App{
		Embedder:        embedder,
		Corpus:          corpus,
		SearchEngine:    engine,
		ParserManager:   parser,
		DocumentService: services.NewDocumentService(parser, chunker, corpus),
		ChatService:     services.NewChatService(&cfg.AI, engine, sessions, prompts),
		SessionService:  sessions,
		ExportService:   services.NewExportService(sessions),
	}

	globalApp = app
	logger.Info("应用初始化完成",
		zap.String("env", cfg.Server.Env),
		zap.String("model_base_url", cfg.AI.BaseURL),
		zap.Int("chunk_size", cfg.Knowledge.ChunkSize),
		zap.Int("chunk_overlap", cfg.Knowledge.ChunkOverlap))
	return app, nil
}

// Shutdown flushes shared resources on exit.
func (a *App) Shutdown() {
	logger.Sync()
}
