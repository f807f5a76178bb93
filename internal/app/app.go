package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/db"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/connection"
)

// BuildApp connects the infrastructure, applies pending migrations and
// registers every module's routes on the router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := db.RunMigrations(sqlDB, zap.L().Named("db.migrate")); err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, rdb, cfg)
}
