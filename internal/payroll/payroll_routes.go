package payroll

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/payslip/:employeeId",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.Payslip,
		)
		payroll.GET("/transfers",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetAll,
		)
		payroll.GET("/transfers/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll", "read"),
			handler.GetByID,
		)
		// Idempotency keys guard the batch endpoints against retried
		// HTTP calls; the per-period uniqueness check inside the service
		// guards against everything else.
		payroll.POST("/transfers",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "payroll", "process"),
			handler.Transfer,
		)
		payroll.POST("/transfers/initiate",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "payroll", "process"),
			handler.InitiateBankTransfer,
		)
		payroll.POST("/transfers/:id/complete",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "process"),
			handler.CompleteTransfer,
		)
	}
}
