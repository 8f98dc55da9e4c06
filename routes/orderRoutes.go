package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/Cheruto/shulewear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("", middlewares.RequireAuth())
	{
		orders.POST("/orders", controllers.CreateOrder)
		orders.GET("/orders/:orderId", controllers.GetOrderById)
		orders.GET("/users/:userId/orders", controllers.GetOrdersByCustomer)
		orders.POST("/orders/:orderId/pay", controllers.InitiatePayment)
		orders.GET("/payments/verify/:reference", controllers.VerifyPayment)
	}

	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/orders", controllers.GetOrders)
		admin.PATCH("/orders/:orderId/status", controllers.UpdateOrderStatus)
		admin.DELETE("/orders/:orderId", controllers.DeleteOrder)
		admin.GET("/orders/pending-count", controllers.GetPendingOrderCount)
		admin.GET("/reports/sales", controllers.GetSalesReport)
	}
}
