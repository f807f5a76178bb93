package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/app"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewProduction()
	if cfg.App.Env != "production" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
