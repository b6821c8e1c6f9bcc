package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/loeylei-cell/my-fullstack-system/controllers/admin"
	productController "github.com/loeylei-cell/my-fullstack-system/controllers/product"
	"github.com/loeylei-cell/my-fullstack-system/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key
// middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", adminController.GetAllOrders(d.Orders))
			orderAdmin.PUT("/:orderID/status", adminController.UpdateOrderStatus(d.Orders))
			orderAdmin.GET("/export-excel", adminController.ExportOrdersToExcel(d.Orders))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productController.CreateProduct(d.Products))
			productAdmin.PUT("/:id/stock", productController.SetStock(d.Products))
		}
	}
}
