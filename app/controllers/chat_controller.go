package controllers

import (
	"net/http"

	"github.com/granitehub/backend-go/app/bootstrap"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/granitehub/backend-go/internal/services"
	"go.uber.org/zap"
)

// ChatController 聊天控制器
type ChatController struct {
	BaseController
	chatService *services.ChatService
}

func (c *ChatController) Prepare() {
	if c.chatService == nil {
		c.chatService = bootstrap.GetApp().ChatService
	}
}

// POST /api/chat/stream
// 以纯文本流的方式逐段返回模型输出
func (c *ChatController) Stream() {
	var req services.ChatStreamRequest
	if !c.BindJSON(&req) {
		return
	}

	w := c.Ctx.ResponseWriter
	flusher, _ := w.ResponseWriter.(http.Flusher)

	started := false
	onDelta := func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			started = true
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if _, err := c.chatService.ChatStream(c.Ctx.Request.Context(), &req, onDelta); err != nil {
		if started {
			// 响应已经开始，只能记录错误并截断流
			logger.Error("流式输出中断",
				zap.String("session_id", req.SessionID),
				zap.String("ip", c.getClientIP()),
				zap.Error(err))
			return
		}
		c.HandleServiceError(err)
	}
}
