package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/loeylei-cell/my-fullstack-system/controllers/cart"
	orderControllers "github.com/loeylei-cell/my-fullstack-system/controllers/order"
	productController "github.com/loeylei-cell/my-fullstack-system/controllers/product"
	"github.com/loeylei-cell/my-fullstack-system/middleware"
)

// SetupPublicRoutes registers endpoints that need no authentication.
func SetupPublicRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productController.GetProducts(d.Products))
	r.GET("/products/:id", productController.GetProductByID(d.Products))

	r.POST("/orders/calculate-shipping", orderControllers.CalculateShippingHandler())

	// real-time order feed for the admin dashboard
	r.GET("/orders/ws", d.Hub.Handle)
}

// SetupUserRoutes registers all JWT-protected customer endpoints.
func SetupUserRoutes(r *gin.Engine, d Deps, cart *cartControllers.Controller) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cart.Get)                   // GET /user/cart
			cartGroup.POST("/", cart.Add)                  // POST /user/cart
			cartGroup.PUT("/", cart.Update)                // PUT /user/cart
			cartGroup.DELETE("/:product_id", cart.Remove)  // DELETE /user/cart/:product_id
			cartGroup.DELETE("/", cart.Clear)              // DELETE /user/cart
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.PlaceOrderHandler(d.Orders))
			orderGroup.GET("/", orderControllers.GetUserOrdersHandler(d.Orders))
			orderGroup.GET("/:orderID", orderControllers.GetOrderByIDHandler(d.Orders))
			orderGroup.POST("/:orderID/payment-proof", orderControllers.UploadPaymentProofHandler(d.Orders))
			orderGroup.PUT("/:orderID/receipt", orderControllers.ConfirmReceiptHandler(d.Orders))
		}
	}
}
