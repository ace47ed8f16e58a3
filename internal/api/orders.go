package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/api/middleware"
	"luxegear-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

// Place is open to guests; an authenticated caller becomes the owner.
func (h *OrderHandler) Place(c *gin.Context) {
	var req service.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)

	res, err := h.orders.PlaceOrder(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	if res.Replayed {
		c.Header("Idempotent-Replayed", "true")
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"orderId": res.Order.ID,
		"order":   res.Order,
	})
}

func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.orders.ListMyOrders(c.Request.Context(), middleware.IdentityFrom(c).UserID)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
