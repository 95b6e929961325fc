package controllers

import (
	"github.com/granitehub/backend-go/app/bootstrap"
)

// RootController 根路径控制器
type RootController struct {
	BaseController
}

// Index 返回运行状态页
func (c *RootController) Index() {
	c.Ctx.Output.Header("Content-Type", "text/html; charset=utf-8")
	c.Ctx.WriteString(`<html>
  <head><title>Granite Backend</title></head>
  <body style="font-family: sans-serif; background:#020617; color:#e5e7eb;">
    <h2>Granite backend is running</h2>
    <p>API health: <a href="/health">/health</a> · Metrics: <a href="/metrics">/metrics</a></p>
  </body>
</html>`)
}

// HealthController 健康检查控制器
type HealthController struct {
	BaseController
}

// Health 返回服务状态与语料库规模
func (c *HealthController) Health() {
	corpusChunks := 0
	if app := bootstrap.GetApp(); app != nil {
		corpusChunks = app.DocumentService.CorpusSize()
	}
	c.JSON(200, map[string]interface{}{
		"status":        "ok",
		"corpus_chunks": corpusChunks,
	})
}
