package unpaidleave

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
	leaves := r.Group("/unpaid-leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "unpaidleave", "read"),
			handler.GetAll,
		)
		leaves.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "unpaidleave", "read"),
			handler.GetByID,
		)
		leaves.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "unpaidleave", "write"),
			handler.Create,
		)
		leaves.POST("/:id/process",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "unpaidleave", "write"),
			handler.Process,
		)
		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "unpaidleave", "write"),
			handler.Delete,
		)
	}
}
