package paycomponent

import (
	"github.com/gin-gonic/gin"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac"
)

// RegisterRoutes wires the four component families. They share one
// permission pair, the split into groups is purely for URL shape.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	read := middleware.RBACAuthorize(rbacService, "paycomponent", "read")
	write := middleware.RBACAuthorize(rbacService, "paycomponent", "write")

	allowances := r.Group("/allowances")
	allowances.Use(middleware.AuthMiddleware())
	{
		allowances.GET("", middleware.RateLimitByUser(2, 5), read, handler.ListAllowances)
		allowances.POST("", middleware.RateLimitByUser(0.2, 2), write, handler.CreateAllowance)
		allowances.PUT("/:id", middleware.RateLimitByUser(0.2, 2), write, handler.UpdateAllowance)
		allowances.DELETE("/:id", middleware.RateLimitByUser(0.1, 1), write, handler.DeleteAllowance)
	}

	bonuses := r.Group("/bonuses")
	bonuses.Use(middleware.AuthMiddleware())
	{
		bonuses.GET("", middleware.RateLimitByUser(2, 5), read, handler.ListBonuses)
		bonuses.POST("", middleware.RateLimitByUser(0.2, 2), write, handler.CreateBonus)
		bonuses.DELETE("/:id", middleware.RateLimitByUser(0.1, 1), write, handler.DeleteBonus)
	}

	deductions := r.Group("/deductions")
	deductions.Use(middleware.AuthMiddleware())
	{
		deductions.GET("", middleware.RateLimitByUser(2, 5), read, handler.ListDeductions)
		deductions.POST("", middleware.RateLimitByUser(0.2, 2), write, handler.CreateDeduction)
		deductions.PUT("/:id", middleware.RateLimitByUser(0.2, 2), write, handler.UpdateDeduction)
		deductions.DELETE("/:id", middleware.RateLimitByUser(0.1, 1), write, handler.DeleteDeduction)
	}

	overtime := r.Group("/overtime-adjustments")
	overtime.Use(middleware.AuthMiddleware())
	{
		overtime.GET("", middleware.RateLimitByUser(2, 5), read, handler.ListOvertime)
		overtime.POST("", middleware.RateLimitByUser(0.2, 2), write, handler.CreateOvertime)
		overtime.DELETE("/:id", middleware.RateLimitByUser(0.1, 1), write, handler.DeleteOvertime)
	}
}
