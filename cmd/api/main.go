package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"halwaipro/internal/app"
	"halwaipro/internal/core/config"
	"halwaipro/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, closeApp, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeApp()

	// 路由（用户端）
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srvs := []*http.Server{server.BuildServer(
		addr, a.APIEngine(),
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)}

	// 内存存储：管理端共用本进程的数据
	if a.EmbedAdmin() {
		adminAddr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
		srvs = append(srvs, server.BuildServer(adminAddr, a.AdminEngine(), 5*time.Second, 10*time.Second, 60*time.Second))
		log.Info("admin api embedded", zap.String("addr", adminAddr), zap.String("admin_v1", "http://"+adminAddr+"/admin/v1"))
	}

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("sweet shop api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.String("db", cfg.DB.Driver),
	)

	// 异步启动
	for _, srv := range srvs {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("http server start FAILED", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range srvs {
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("shutdown", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
	log.Info("sweet shop api stopped gracefully")
}
