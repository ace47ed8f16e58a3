package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/api/middleware"
	"luxegear-backend/internal/service"
)

type AdminHandler struct {
	admin  *service.AdminService
	orders *service.OrderService
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type adminOrdersQuery struct {
	pageQuery
	Status string `form:"status"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	IsPaid *bool  `json:"isPaid"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *AdminHandler) Orders(c *gin.Context) {
	var q adminOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), service.OrderListInput{
		PageInput: service.PageInput{Page: q.Page, Limit: q.Limit},
		Status:    q.Status,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   page.Total,
		"page":    page.Page,
		"pages":   page.Pages,
		"orders":  page.Orders,
	})
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.IsPaid)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "order": order})
}

func (h *AdminHandler) Users(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	page, err := h.admin.ListUsers(c.Request.Context(), service.PageInput{Page: q.Page, Limit: q.Limit})
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   page.Total,
		"page":    page.Page,
		"pages":   page.Pages,
		"users":   page.Users,
	})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	user, err := h.admin.SetRole(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.Role)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User role updated", "user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "User deleted"})
}
