package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"halwaipro/internal/core/auth"
	"halwaipro/internal/core/cache"
	"halwaipro/internal/core/config"
	"halwaipro/internal/core/database"
	"halwaipro/internal/core/logger"
	"halwaipro/internal/domain"
	"halwaipro/internal/repo"
	"halwaipro/internal/service"
	"halwaipro/internal/transport/http/handler"
	mdw "halwaipro/internal/transport/http/middleware"
	"halwaipro/internal/transport/http/router"
)

// App 进程级依赖：两个入口（api/admin）共用
type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	DB     *gorm.DB // memory 驱动时为 nil
	Cache  *cache.Cache
	JWT    *auth.JWTer
	Users  domain.UserRepository
	Sweets domain.SweetRepository

	Auth      *service.AuthService
	Inventory *service.SweetService
	Accounts  *service.UserService
}

// NewLogger 两个入口共用：log.file 开启时写文件并切割
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     f.Enable,
		Filename:   f.Filename,
		MaxSizeMB:  f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAgeDays: f.MaxAgeDays,
		Compress:   f.Compress,
	})
}

// New 打开存储并组装服务；返回的 cleanup 关闭 redis / 连接池
func New(cfg *config.Config, l *zap.Logger) (*App, func(), error) {
	a := &App{Cfg: cfg, Log: l}
	closers := []func(){}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DB.Driver == database.DriverMemory || cfg.DB.Driver == "" {
		a.Users = repo.NewMemoryUserRepo()
		a.Sweets = repo.NewMemorySweetRepo()
		l.Warn("using in-memory store, data is lost on restart")
	} else {
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Logger:             l,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("open db: %w", err)
		}
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		l.Info("database connected", zap.String("driver", cfg.DB.Driver))
		if cfg.DB.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				return nil, cleanup, fmt.Errorf("automigrate: %w", err)
			}
			l.Info("automigrate done")
		}
		a.DB = db
		a.Users = repo.NewUserRepo(db)
		a.Sweets = repo.NewSweetRepo(db)
	}

	a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if a.Cache.Enabled() {
		closers = append(closers, func() { _ = a.Cache.Close() })
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	a.Auth = service.NewAuthService(a.Users, a.JWT)
	a.Inventory = service.NewSweetService(a.Sweets)
	a.Accounts = service.NewUserService(a.Users)
	return a, cleanup, nil
}

// RouterDeps 引擎依赖；模块列表由 api/admin 各自决定
func (a *App) RouterDeps(mods ...any) router.Deps {
	checks := map[string]router.Pinger{}
	if a.DB != nil {
		checks["database"] = database.Pinger{DB: a.DB}
	}
	if a.Cache.Enabled() {
		checks["redis"] = a.Cache
	}
	return router.Deps{
		Log:     a.Log,
		Limits:  a.Cfg.App.Limits,
		Tokens:  a.JWT,
		Users:   a.Users,
		Modules: router.NewRegistry(mods...),
		Checks:  checks,
	}
}

// APIModules 用户端：认证 + 商品
func (a *App) APIModules() []any {
	lim := a.Cfg.App.Limits
	throttle := mdw.LoginThrottle(a.Cache, lim.LoginAttempts, time.Duration(lim.LoginWindowSec)*time.Second, a.Log)
	return []any{
		handler.NewAuthHandler(a.Auth, throttle),
		handler.NewSweetHandler(a.Inventory),
	}
}

// AdminModules 管理端：用户维护
func (a *App) AdminModules() []any {
	return []any{handler.NewAdminHandler(a.Accounts)}
}

// EmbedAdmin 内存存储不跨进程共享，管理端由用户端进程一起提供
func (a *App) EmbedAdmin() bool { return a.DB == nil }

func (a *App) APIEngine() *gin.Engine {
	return router.NewAPIEngine(a.RouterDeps(a.APIModules()...))
}

func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.RouterDeps(a.AdminModules()...))
}
