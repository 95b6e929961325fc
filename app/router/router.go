package router

import (
	"github.com/granitehub/backend-go/app/controllers"
	"github.com/granitehub/backend-go/app/middleware"
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init registers all routes. Must be called after bootstrap.Init.
func Init() {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)

	// 聊天
	web.Router("/api/chat/stream", &controllers.ChatController{}, "post:Stream")

	// 文档入库与检索
	web.Router("/api/documents/upload", &controllers.DocumentController{}, "post:Upload")
	web.Router("/api/search", &controllers.SearchController{}, "post:Search")
	web.Router("/api/corpus/stats", &controllers.SearchController{}, "get:CorpusStats")

	// 会话
	web.Router("/api/sessions/new", &controllers.SessionController{}, "post:New")
	web.Router("/api/sessions/clear", &controllers.SessionController{}, "post:Clear")
	web.Router("/api/sessions/export", &controllers.SessionController{}, "post:Export")

	// Prometheus指标
	web.Handler("/metrics", promhttp.Handler())
}
