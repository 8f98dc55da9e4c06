package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/Cheruto/shulewear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-email/:activationToken", controllers.ActivateAccount)
		auth.POST("/forgot-password", controllers.SendPasswordResetLink)
		auth.POST("/reset-password/:resetToken", controllers.ResetPassword)
	}

	users := server.Group("/admin/users", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		users.GET("", controllers.GetUsers)
		users.PATCH("/:userId/activation", controllers.UpdateUserActivation)
	}
}
