package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loeylei-cell/my-fullstack-system/controllers/web"
	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/orders"
	"github.com/loeylei-cell/my-fullstack-system/shipping"
	"github.com/loeylei-cell/my-fullstack-system/uploads"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	Items           []orders.LineItem `json:"items" binding:"required"`
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	ShippingAddress models.Address    `json:"shipping_address" binding:"required"`
}

type CalculateShippingRequest struct {
	Province string `json:"province" binding:"required"`
}

// -------- Handlers --------

// PlaceOrderHandler creates a pending order for the authenticated user.
// Stock is checked, not reserved; the reservation happens at proof upload.
func PlaceOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := web.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := svc.Create(c.Request.Context(), orders.CreateRequest{
			UserID:          userID,
			Items:           req.Items,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			web.Error(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"shipping_fee": order.ShippingFee,
			"total":        order.Total,
			"message":      "Order created successfully",
		})
	}
}

// UploadPaymentProofHandler accepts the payment evidence as multipart form
// data and triggers the one-time stock deduction.
func UploadPaymentProofHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := web.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		fileHeader, err := c.FormFile("payment_proof")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_proof file is required"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payment_proof"})
			return
		}
		defer f.Close()

		order, err := svc.SubmitPaymentProof(c.Request.Context(), orders.ProofRequest{
			OrderID: c.Param("orderID"),
			UserID:  userID,
			Proof:   uploads.File{Name: fileHeader.Filename, Size: fileHeader.Size, Reader: f},
		})
		if err != nil {
			web.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Payment proof uploaded successfully. Order remains pending for admin confirmation.",
			"proof_path": order.PaymentProof,
			"status":     order.Status,
		})
	}
}

// ConfirmReceiptHandler lets the order's owner confirm delivery with photo
// proof, completing the order.
func ConfirmReceiptHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := web.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		fileHeader, err := c.FormFile("proof_image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "proof_image file is required"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read proof_image"})
			return
		}
		defer f.Close()

		order, err := svc.ConfirmReceipt(c.Request.Context(), orders.ProofRequest{
			OrderID: c.Param("orderID"),
			UserID:  userID,
			Proof:   uploads.File{Name: fileHeader.Filename, Size: fileHeader.Size, Reader: f},
		})
		if err != nil {
			web.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Order receipt confirmed successfully",
			"status":  order.Status,
		})
	}
}

// GetUserOrdersHandler returns the authenticated user's orders.
func GetUserOrdersHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := web.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		list, err := svc.ListForUser(c.Request.Context(), userID)
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// GetOrderByIDHandler returns one order, owner-only.
func GetOrderByIDHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := web.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, err := svc.GetForUser(c.Request.Context(), c.Param("orderID"), userID)
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// CalculateShippingHandler quotes the shipping fee for a province.
func CalculateShippingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CalculateShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Province is required"})
			return
		}

		region, fee := shipping.RegionAndFee(req.Province)
		c.JSON(http.StatusOK, gin.H{
			"province":     req.Province,
			"region":       region,
			"shipping_fee": fee,
		})
	}
}
