package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/loeylei-cell/my-fullstack-system/controllers/web"
	"github.com/loeylei-cell/my-fullstack-system/keymutex"
	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/store"
)

// Controller serves the per-user staging cart. All mutations for one user
// are serialized through a keyed mutex so concurrent tabs cannot lose
// updates to the item list.
type Controller struct {
	products store.ProductStore
	carts    store.CartStore
	locks    *keymutex.KeyMutex
}

func NewController(products store.ProductStore, carts store.CartStore) *Controller {
	return &Controller{
		products: products,
		carts:    carts,
		locks:    keymutex.New(),
	}
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	// nil means "leave unchanged"
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

// LineView is a cart line joined with the live product, since the cart
// itself stores no prices or stock.
type LineView struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Condition    string  `json:"condition"`
	Image        string  `json:"image"`
	CurrentStock int     `json:"current_stock"`
	Quantity     int     `json:"qty"`
	Selected     bool    `json:"selected"`
	Available    bool    `json:"available"`
}

// Get returns the cart with each line refreshed against the live catalog.
func (ct *Controller) Get(c *gin.Context) {
	userID, ok := web.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := ct.carts.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		web.Error(c, err)
		return
	}

	views := make([]LineView, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := ct.products.FindByID(c.Request.Context(), item.ProductID)
		if err != nil || !product.IsActive {
			views = append(views, LineView{
				ProductID: item.ProductID,
				Name:      "Product No Longer Available",
				Quantity:  item.Quantity,
			})
			continue
		}

		qty := item.Quantity
		if qty > product.Stock {
			qty = product.Stock
		}
		views = append(views, LineView{
			ProductID:    product.ID,
			Name:         product.Name,
			Price:        product.Price,
			Condition:    product.Condition,
			Image:        product.Image,
			CurrentStock: product.Stock,
			Quantity:     qty,
			Selected:     item.Selected && product.Stock > 0,
			Available:    true,
		})
	}

	c.JSON(http.StatusOK, gin.H{"cart": views})
}

// Add puts a product in the cart or raises the quantity of an existing line,
// never past current stock. New lines start unselected.
func (ct *Controller) Add(c *gin.Context) {
	userID, ok := web.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ct.locks.Lock(userID)
	defer ct.locks.Unlock(userID)

	product, err := ct.products.FindByID(c.Request.Context(), req.ProductID)
	if err != nil || !product.IsActive {
		web.Error(c, errors.Wrap(models.ErrNotFound, "product"))
		return
	}

	existing := 0
	cart, err := ct.carts.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		web.Error(c, err)
		return
	}
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID {
			existing = item.Quantity
			break
		}
	}

	if existing+req.Quantity > product.Stock {
		web.Error(c, &models.InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Available: product.Stock,
			Requested: existing + req.Quantity,
		})
		return
	}

	if err := ct.carts.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

// Update patches quantity and/or selection of one line.
func (ct *Controller) Update(c *gin.Context) {
	userID, ok := web.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ct.locks.Lock(userID)
	defer ct.locks.Unlock(userID)

	product, err := ct.products.FindByID(c.Request.Context(), req.ProductID)
	if err != nil || !product.IsActive {
		web.Error(c, errors.Wrap(models.ErrNotFound, "product"))
		return
	}

	if req.Quantity != nil {
		if *req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}
		if *req.Quantity > product.Stock {
			web.Error(c, &models.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: *req.Quantity,
			})
			return
		}
	}
	if req.Selected != nil && *req.Selected && product.Stock == 0 {
		// out-of-stock lines cannot be selected for checkout
		f := false
		req.Selected = &f
	}

	if err := ct.carts.UpdateItem(c.Request.Context(), userID, req.ProductID, req.Quantity, req.Selected); err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
}

// Remove deletes one line from the cart.
func (ct *Controller) Remove(c *gin.Context) {
	userID, ok := web.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	productID := c.Param("product_id")

	ct.locks.Lock(userID)
	defer ct.locks.Unlock(userID)

	if err := ct.carts.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// Clear empties the cart.
func (ct *Controller) Clear(c *gin.Context) {
	userID, ok := web.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ct.locks.Lock(userID)
	defer ct.locks.Unlock(userID)

	if err := ct.carts.Clear(c.Request.Context(), userID); err != nil {
		web.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
