package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/Cheruto/shulewear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PATCH("/items/:itemId", controllers.UpdateCartItemQuantity)
		cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
	}

	pos := server.Group("/admin/pos", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		pos.GET("/cart", controllers.GetPosCart)
		pos.POST("/cart/items", controllers.AddPosCartItem)
		pos.PATCH("/cart/items/:itemId", controllers.UpdatePosCartItemQuantity)
		pos.DELETE("/cart/items/:itemId", controllers.RemovePosCartItem)
		pos.DELETE("/cart", controllers.ClearPosCart)
		pos.POST("/checkout", controllers.CheckoutPOS)
	}
}
