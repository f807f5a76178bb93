package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/audit"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/auth"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/employee"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leave"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leaverule"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/messaging/kafka"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/paycomponent"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/payroll"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac/infra"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/salary"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/counter"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/statutory"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/unpaidleave"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)
	paycomponentRepo := paycomponent.NewRepository(gormDB)
	leaveruleRepo := leaverule.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	unpaidRepo := unpaidleave.NewRepository(gormDB)
	statutoryRepo := statutory.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	authService := auth.NewService(authRepo, rbacService, employeeRepo, cfg.Auth)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, auditService, rdb)
	salaryService := salary.NewService(db, salaryRepo, auditService)
	paycomponentService := paycomponent.NewService(db, paycomponentRepo, auditService)
	leaveruleService := leaverule.NewService(db, leaveruleRepo, auditService)
	unpaidService := unpaidleave.NewService(db, unpaidRepo, salaryRepo, cfg.Payroll, auditService)
	leaveService := leave.NewService(db, leaveRepo, unpaidRepo, leaveruleRepo, employeeRepo,
		outboxRepo, auditService, cfg.Payroll, cfg.Leave)

	// The rate source and the calculator tie the statutory and payroll
	// modules to the same numbers: payslips, transfers and contribution
	// processing all read through this one calculator.
	rates := statutory.NewRateSource(statutoryRepo, cfg.Statutory)
	calculator := payroll.NewCalculator(salaryRepo, paycomponentRepo, unpaidRepo, rates)
	statutoryService := statutory.NewService(db, statutoryRepo, calculator, rates, auditService)
	payrollService := payroll.NewService(db, payrollRepo, employeeRepo, calculator, outboxRepo, auditService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.Auth, cfg.App.Env == "production")
	auditHandler := audit.NewHandler(auditService)
	employeeHandler := employee.NewHandler(employeeService)
	salaryHandler := salary.NewHandler(salaryService)
	paycomponentHandler := paycomponent.NewHandler(paycomponentService)
	leaveruleHandler := leaverule.NewHandler(leaveruleService)
	leaveHandler := leave.NewHandler(leaveService)
	unpaidHandler := unpaidleave.NewHandler(unpaidService)
	statutoryHandler := statutory.NewHandler(statutoryService)
	payrollHandler := payroll.NewHandler(payrollService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, middleware.RateLimitByIP(1, 5))
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		salary.RegisterRoutes(api, salaryHandler, rbacService)
		paycomponent.RegisterRoutes(api, paycomponentHandler, rbacService)
		leaverule.RegisterRoutes(api, leaveruleHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		unpaidleave.RegisterRoutes(api, unpaidHandler, rbacService)
		statutory.RegisterRoutes(api, statutoryHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		audit.RegisterRoutes(api, auditHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
