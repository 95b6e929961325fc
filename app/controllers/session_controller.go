package controllers

import (
	"fmt"
	"net/http"

	"github.com/granitehub/backend-go/app/bootstrap"
	"github.com/granitehub/backend-go/internal/services"
)

// SessionController 会话控制器
type SessionController struct {
	BaseController
	sessionService *services.SessionService
	exportService  *services.ExportService
}

func (c *SessionController) Prepare() {
	app := bootstrap.GetApp()
	if c.sessionService == nil {
		c.sessionService = app.SessionService
	}
	if c.exportService == nil {
		c.exportService = app.ExportService
	}
}

// clearSessionRequest 清空会话请求
type clearSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// exportRequest 导出会话请求
type exportRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Format    string `json:"format" validate:"omitempty,oneof=txt docx pdf"`
}

// POST /api/sessions/new
// 生成新的会话ID供前端使用
func (c *SessionController) New() {
	c.JSONSuccess(map[string]string{
		"session_id": c.sessionService.NewSessionID(),
	})
}

// POST /api/sessions/clear
func (c *SessionController) Clear() {
	var req clearSessionRequest
	if !c.BindJSON(&req) {
		return
	}

	c.sessionService.Clear(req.SessionID)
	c.JSONSuccess(map[string]string{
		"status":     "cleared",
		"session_id": req.SessionID,
	})
}

// POST /api/sessions/export
// 以附件形式返回会话导出文件
func (c *SessionController) Export() {
	var req exportRequest
	if !c.BindJSON(&req) {
		return
	}
	if req.Format == "" {
		req.Format = services.ExportFormatTxt
	}

	result, err := c.exportService.Export(req.SessionID, req.Format)
	if err != nil {
		c.HandleServiceError(err)
		return
	}

	c.Ctx.Output.Header("Content-Type", result.ContentType)
	c.Ctx.Output.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Ctx.Output.SetStatus(http.StatusOK)
	c.Ctx.Output.Body(result.Data)
}
