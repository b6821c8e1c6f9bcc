package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/loeylei-cell/my-fullstack-system/controllers/cart"
	orderControllers "github.com/loeylei-cell/my-fullstack-system/controllers/order"
	"github.com/loeylei-cell/my-fullstack-system/orders"
	"github.com/loeylei-cell/my-fullstack-system/store"
)

// Deps carries the constructed services and stores into the route setup.
type Deps struct {
	Orders   *orders.Service
	Products store.ProductStore
	Carts    store.CartStore
	Hub      *orderControllers.Hub
}

// SetupRoutes is the single entry point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	cart := cartControllers.NewController(d.Products, d.Carts)

	SetupPublicRoutes(r, d)
	SetupUserRoutes(r, d, cart)
	SetupAdminRoutes(r, d)
}
