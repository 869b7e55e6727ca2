package routes

import (
	"github.com/gin-gonic/gin"

	"authapi/internal/handlers"
	"authapi/internal/middleware"
	"authapi/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	tokens services.TokenService,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/verify-email", authHandler.VerifyEmail)
	r.POST("/forgot-password", authHandler.ForgotPassword)
	r.POST("/reset-password", authHandler.ResetPassword)

	// ---- protected
	r.Use(middleware.AuthMiddleware(tokens))

	r.POST("/logout", authHandler.Logout)
	r.POST("/block-user", middleware.RequireAdmin(), authHandler.BlockUser)
	r.GET("/user-dashboard", dashboardHandler.UserDashboard)
	r.GET("/admin-dashboard", dashboardHandler.AdminDashboard)

	return r
}
