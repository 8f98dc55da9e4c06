package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
