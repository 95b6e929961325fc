package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/granitehub/backend-go/app/bootstrap"
	"github.com/granitehub/backend-go/internal/config"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/granitehub/backend-go/internal/services"
	"go.uber.org/zap"
)

// DocumentController 文档上传控制器
type DocumentController struct {
	BaseController
	documentService *services.DocumentService
}

func (c *DocumentController) Prepare() {
	if c.documentService == nil {
		c.documentService = bootstrap.GetApp().DocumentService
	}
}

// uploadTextRequest JSON模式入库请求
// 空文本是合法的零效果入库，不在校验层拒绝
type uploadTextRequest struct {
	Text       string `json:"text"`
	SourceName string `json:"source_name"`
}

// POST /api/documents/upload
// 支持multipart文件上传和JSON纯文本两种模式
func (c *DocumentController) Upload() {
	cfg := config.GetAppConfig()

	file, header, err := c.GetFile("file")
	if err == nil && file != nil {
		defer file.Close()

		if header.Size > cfg.FileUpload.MaxSize {
			c.JSONError(http.StatusBadRequest, "文件超过大小限制")
			return
		}

		filename := filepath.Base(header.Filename)
		if filename == "" || filename == "." {
			c.JSONError(http.StatusBadRequest, "文件名不能为空")
			return
		}

		sourceName := c.GetString("source_name", filename)

		// 先保存原始文件，再从磁盘读取解析
		savePath := filepath.Join(cfg.FileUpload.UploadPath, filename)
		if err := c.SaveToFile("file", savePath); err != nil {
			logger.Error("保存上传文件失败", zap.String("file", filename), zap.Error(err))
			c.JSONError(http.StatusInternalServerError, "保存文件失败")
			return
		}

		saved, err := os.Open(savePath)
		if err != nil {
			c.JSONError(http.StatusInternalServerError, "读取文件失败")
			return
		}
		defer saved.Close()

		added, err := c.documentService.AddDocumentFromFile(c.Ctx.Request.Context(), saved, filename, sourceName)
		if err != nil {
			c.HandleServiceError(err)
			return
		}

		c.JSONSuccess(map[string]interface{}{
			"file":         filename,
			"chunks_added": added,
			"total_chunks": c.documentService.CorpusSize(),
		})
		return
	}

	// JSON模式：直接提交文本
	var req uploadTextRequest
	if !c.BindJSON(&req) {
		return
	}
	if req.SourceName == "" {
		req.SourceName = "raw_text"
	}

	added, err := c.documentService.AddDocumentFromText(c.Ctx.Request.Context(), req.Text, req.SourceName)
	if err != nil {
		c.HandleServiceError(err)
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"source":       req.SourceName,
		"chunks_added": added,
		"total_chunks": c.documentService.CorpusSize(),
	})
}
