package productController

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loeylei-cell/my-fullstack-system/controllers/web"
	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/store"
)

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Condition   string  `json:"condition"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock" binding:"min=0"`
}

type SetStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

// GetProducts lists the catalog.
func GetProducts(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	}
}

// GetProductByID returns one product.
func GetProductByID(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := products.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// CreateProduct adds a catalog entry (admin).
func CreateProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Condition:   req.Condition,
			Category:    req.Category,
			Image:       req.Image,
			Stock:       req.Stock,
			IsActive:    true,
		}
		if err := products.Create(c.Request.Context(), &product); err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// SetStock overwrites a product's stock counter (admin). This and the order
// commit are the only two writers of stock.
func SetStock(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock is required"})
			return
		}

		if err := products.SetStock(c.Request.Context(), c.Param("id"), *req.Stock); err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully"})
	}
}
