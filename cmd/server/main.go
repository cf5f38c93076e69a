package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/calzado-next/internal/app"
	"github.com/calzado-next/internal/config"
	"github.com/calzado-next/internal/i18n"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
	ansiDim   = "\033[2m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()
	i18n.SetDefaultLocale(cfg.App.DefaultLocale)

	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			log.Fatalw("jwt_secret_weak", "hint", "configure a strong random user_jwt.secret")
		}
		log.Warnw("jwt_secret_weak", "hint", "change user_jwt.secret before production")
	}

	// 初始化数据库
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		log.Fatalw("db_open_failed", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		if err := models.CloseDB(db); err != nil {
			log.Warnw("db_close_failed", "error", err)
		}
	}()

	// 自动迁移数据库表
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalw("db_migrate_failed", "error", err)
	}

	// 初始化默认管理员账号
	if cfg.Server.Mode == "release" && cfg.Admin.Password == "" {
		log.Warnw("default_admin_skipped", "reason", "admin.password not configured")
	} else if err := models.InitDefaultAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Warnw("default_admin_init_failed", "error", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		log.Errorw("app_run_failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "Calzado-Next API" + ansiReset)
	fmt.Println(ansiDim + "mode: " + mode + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
