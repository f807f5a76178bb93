package leaverule

import (
	"github.com/gin-gonic/gin"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	rules := r.Group("/leave-rules")
	rules.Use(middleware.AuthMiddleware())
	{
		rules.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "leaverule", "read"),
			handler.GetAll,
		)
		rules.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "leaverule", "read"),
			handler.GetByID,
		)
		rules.GET("/grade/:gradeId",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "leaverule", "read"),
			handler.GetByGrade,
		)
		rules.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "leaverule", "write"),
			handler.Create,
		)
		rules.PUT("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "leaverule", "write"),
			handler.Update,
		)
		rules.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "leaverule", "write"),
			handler.Delete,
		)
	}
}
