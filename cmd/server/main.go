package main

import (
	"log"
	"strconv"

	"github.com/granitehub/backend-go/app/bootstrap"
	"github.com/granitehub/backend-go/app/router"
	"github.com/granitehub/backend-go/internal/config"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	router.Init()

	// 配置Beego全局设置
	web.BConfig.AppName = "Granite Chat Backend"
	web.BConfig.CopyRequestBody = true
	web.BConfig.RunMode = config.AppConfig.Server.Env

	if p, err := strconv.Atoi(config.AppConfig.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = p
	} else {
		web.BConfig.Listen.HTTPPort = 8001
	}

	logger.Info("🚀 Starting Granite Chat Backend", zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
