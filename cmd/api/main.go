package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/app"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/bootstrap"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.App.Env)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	if err := app.BuildApp(r, cfg); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.App.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutLifecycleLogger(),
	)
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
