package routes

import (
	"github.com/Cheruto/shulewear-api/controllers"
	"github.com/Cheruto/shulewear-api/middlewares"
	"github.com/gin-gonic/gin"
)

func InventoryRoutes(server *gin.Engine) {
	server.GET("/inventory", controllers.GetInventory)

	admin := server.Group("/admin/inventory", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateInventoryItem)
		admin.PUT("/:type/:id", controllers.UpdateInventoryItem)
		admin.DELETE("/:type/:id", controllers.DeleteInventoryItem)
		admin.GET("/low-stock", controllers.GetLowStock)
		admin.POST("/images", controllers.UploadUniformImages)
		admin.POST("/import", controllers.ImportInventoryCSV)
		admin.GET("/imports", controllers.GetImportBatches)
	}

	server.GET("/admin/barcode/:code",
		middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.LookupBarcode)
}
