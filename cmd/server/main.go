package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gymlog/internal/config"
	"github.com/gymlog/internal/db"
	"github.com/gymlog/internal/handler"
	"github.com/gymlog/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需创建超级管理员账号
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.Setup(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		StaticDir:     "./web/static",
	})
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
