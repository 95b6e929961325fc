package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/beego/beego/v2/server/web"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONSuccess writes a standard success envelope.
func (c *BaseController) JSONSuccess(data interface{}) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// BindJSON 解析并校验JSON请求体，失败时写入错误响应并返回false
func (c *BaseController) BindJSON(dst interface{}) bool {
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, dst); err != nil {
		c.JSONError(http.StatusBadRequest, fmt.Sprintf("请求格式错误: %v", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		c.JSONError(http.StatusBadRequest, fmt.Sprintf("参数校验失败: %v", err))
		return false
	}
	return true
}

// HandleServiceError 将服务层错误映射为HTTP错误响应
func (c *BaseController) HandleServiceError(err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSONError(appErr.HTTPCode, appErr.Message)
		return
	}
	c.JSONError(http.StatusInternalServerError, "内部服务错误")
}

// getClientIP 获取客户端真实IP地址
func (c *BaseController) getClientIP() string {
	// 尝试从X-Forwarded-For头获取（代理服务器）
	xForwardedFor := c.Ctx.Input.Header("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	if xRealIP := c.Ctx.Input.Header("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	return c.Ctx.Input.IP()
}
