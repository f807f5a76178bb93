package audit

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
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.GetAll)
	}
}
