package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/loeylei-cell/my-fullstack-system/controllers/web"
	"github.com/loeylei-cell/my-fullstack-system/orders"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAllOrders lists every order for the admin panel.
func GetAllOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAll(c.Request.Context())
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// UpdateOrderStatus moves an order through the admin pipeline. Only
// pending/confirmed/processing/shipped are accepted; completed belongs to
// the customer's receipt confirmation.
func UpdateOrderStatus(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("orderID"), req.Status)
		if err != nil {
			web.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Order status updated successfully",
			"status":  order.Status,
		})
	}
}

// ExportOrdersToExcel downloads the full order book as a spreadsheet.
func ExportOrdersToExcel(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAll(c.Request.Context())
		if err != nil {
			web.Error(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderNumber", "UserID", "Status", "Subtotal", "ShippingRegion",
			"ShippingFee", "Total", "PaymentMethod", "StockDeducted",
			"PaymentProof", "ReceiptProof", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range list {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.ShippingRegion)
			row.AddCell().SetValue(o.ShippingFee)
			row.AddCell().SetValue(o.Total)
			row.AddCell().SetValue(o.PaymentMethod)
			row.AddCell().SetValue(o.StockDeducted)
			row.AddCell().SetValue(o.PaymentProof)
			row.AddCell().SetValue(o.ReceiptProof)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
