package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	AI         AIConfig
	Knowledge  KnowledgeConfig
	FileUpload FileUploadConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// AIConfig 本地模型服务配置（OpenAI兼容接口）
type AIConfig struct {
	BaseURL     string
	APIKey      string
	ChatModel   string
	EmbedModel  string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

type KnowledgeConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	ContextMaxChars int
}

type FileUploadConfig struct {
	MaxSize    int64
	UploadPath string
}

var AppConfig *Config

func LoadConfig() error {
	// 设置默认值
	viper.SetDefault("server.port", "8001")
	viper.SetDefault("server.env", "development")

	// AI配置默认值：默认指向本地模型服务
	viper.SetDefault("ai.base_url", "http://localhost:11434/v1")
	viper.SetDefault("ai.api_key", "local")
	viper.SetDefault("ai.chat_model", "granite3.1-dense:2b")
	viper.SetDefault("ai.embed_model", "granite-embedding:125m")
	viper.SetDefault("ai.max_tokens", 400)
	viper.SetDefault("ai.temperature", 0.3)
	viper.SetDefault("ai.top_p", 0.9)

	// 知识库配置默认值
	viper.SetDefault("knowledge.chunk_size", 800)
	viper.SetDefault("knowledge.chunk_overlap", 200)
	viper.SetDefault("knowledge.top_k", 4)
	viper.SetDefault("knowledge.context_max_chars", 2000)

	// 文件上传配置默认值
	viper.SetDefault("file_upload.max_size", 15728640) // 15MB
	viper.SetDefault("file_upload.upload_path", "./vector_store")

	// 读取环境变量
	viper.SetEnvPrefix("GRANITE")
	viper.AutomaticEnv()

	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if env := os.Getenv("ENV"); env != "" {
		viper.Set("server.env", env)
	}
	if baseURL := os.Getenv("MODEL_BASE_URL"); baseURL != "" {
		viper.Set("ai.base_url", baseURL)
	}
	if apiKey := os.Getenv("MODEL_API_KEY"); apiKey != "" {
		viper.Set("ai.api_key", apiKey)
	}
	if chatModel := os.Getenv("CHAT_MODEL"); chatModel != "" {
		viper.Set("ai.chat_model", chatModel)
	}
	if embedModel := os.Getenv("EMBED_MODEL"); embedModel != "" {
		viper.Set("ai.embed_model", embedModel)
	}
	if chunkSize := os.Getenv("CHUNK_SIZE"); chunkSize != "" {
		if n, err := strconv.Atoi(chunkSize); err == nil && n > 0 {
			viper.Set("knowledge.chunk_size", n)
		}
	}
	if overlap := os.Getenv("CHUNK_OVERLAP"); overlap != "" {
		if n, err := strconv.Atoi(overlap); err == nil && n >= 0 {
			viper.Set("knowledge.chunk_overlap", n)
		}
	}
	if uploadPath := os.Getenv("UPLOAD_PATH"); uploadPath != "" {
		viper.Set("file_upload.upload_path", uploadPath)
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		AI: AIConfig{
			BaseURL:     viper.GetString("ai.base_url"),
			APIKey:      viper.GetString("ai.api_key"),
			ChatModel:   viper.GetString("ai.chat_model"),
			EmbedModel:  viper.GetString("ai.embed_model"),
			MaxTokens:   viper.GetInt("ai.max_tokens"),
			Temperature: viper.GetFloat64("ai.temperature"),
			TopP:        viper.GetFloat64("ai.top_p"),
		},
		Knowledge: KnowledgeConfig{
			ChunkSize:       viper.GetInt("knowledge.chunk_size"),
			ChunkOverlap:    viper.GetInt("knowledge.chunk_overlap"),
			TopK:            viper.GetInt("knowledge.top_k"),
			ContextMaxChars: viper.GetInt("knowledge.context_max_chars"),
		},
		FileUpload: FileUploadConfig{
			MaxSize:    viper.GetInt64("file_upload.max_size"),
			UploadPath: viper.GetString("file_upload.upload_path"),
		},
	}

	return nil
}

// GetAppConfig 获取全局配置
func GetAppConfig() *Config {
	if AppConfig == nil {
		_ = LoadConfig()
	}
	return AppConfig
}
