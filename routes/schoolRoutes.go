package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/Cheruto/shulewear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func SchoolRoutes(server *gin.Engine) {
	server.GET("/schools", controllers.GetSchools)
	server.GET("/schools/:id", controllers.GetSchool)

	admin := server.Group("/admin/schools", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateSchool)
		admin.PUT("/:id", controllers.UpdateSchool)
		admin.DELETE("/:id", controllers.DeleteSchool)
	}
}
