package statutory

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
	statutory := r.Group("/statutory")
	statutory.Use(middleware.AuthMiddleware())
	{
		statutory.GET("/configs",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "statutory", "read"),
			handler.ListConfigs,
		)
		statutory.GET("/configs/:employeeId",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "statutory", "read"),
			handler.GetConfig,
		)
		statutory.PUT("/configs",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "statutory", "write"),
			handler.UpsertConfig,
		)
		statutory.GET("/eligible",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "statutory", "read"),
			handler.ListEligible,
		)
		statutory.POST("/process",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "statutory", "process"),
			handler.Process,
		)
		statutory.GET("/transactions",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "statutory", "read"),
			handler.ListTransactions,
		)
		statutory.GET("/transactions/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "statutory", "read"),
			handler.GetTransaction,
		)
	}
}
