package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	loginLimiter gin.HandlerFunc,
) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", loginLimiter, handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/logout", handler.Logout)

		authGroup.POST("/register",
			middleware.AuthMiddleware(),
			middleware.RoleMiddleware("Admin", "HR"),
			handler.Register,
		)

		authGroup.GET("/me",
			middleware.AuthMiddleware(),
			middleware.ExtractUserID(),
			handler.Me,
		)
	}
}
