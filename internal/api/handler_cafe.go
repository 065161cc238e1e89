package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"console-cafe-backend/internal/cafe"
)

func (h *Handler) PostCafeOrder(c *gin.Context) {
	var req cafe.OrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.cafe.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "message": "Order created"})
}

func (h *Handler) GetCafeOrders(c *gin.Context) {
	orders, err := h.cafe.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) PostInventoryItem(c *gin.Context) {
	var req cafe.InventoryRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.cafe.AddInventoryItem(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": item.ID, "message": "Inventory item added"})
}

func (h *Handler) GetInventory(c *gin.Context) {
	items, err := h.cafe.ListInventory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetLowStock lists items at or below their reorder level.
func (h *Handler) GetLowStock(c *gin.Context) {
	items, err := h.cafe.LowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) PostWithdrawal(c *gin.Context) {
	var req cafe.WithdrawalRequest
	if !bind(c, &req) {
		return
	}
	w, err := h.cafe.RecordWithdrawal(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal_id": w.ID, "message": "Withdrawal recorded"})
}

func (h *Handler) GetWithdrawals(c *gin.Context) {
	list, err := h.cafe.ListWithdrawals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
