package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/api/middleware"
	"luxegear-backend/internal/service"
)

type AuthHandler struct {
	accounts *service.AccountService
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	res, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   res.Token,
		User:    newUserResponse(res.User),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	res, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Token:   res.Token,
		User:    newUserResponse(res.User),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": middleware.UserFrom(c)})
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	user, err := h.accounts.UpdateProfile(c.Request.Context(), middleware.UserFrom(c).ID, req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
