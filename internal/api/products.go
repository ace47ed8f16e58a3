package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/api/middleware"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/service"
)

type ProductHandler struct {
	catalog        *service.CatalogService
	maxUploadBytes int64
}

type productListQuery struct {
	Page      int      `form:"page" binding:"omitempty,min=1"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
	Category  string   `form:"category"`
	Search    string   `form:"search"`
	MinPrice  *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	MinRating *float64 `form:"minRating" binding:"omitempty,gte=0,lte=5"`
	InStock   string   `form:"inStock"`
	Sort      string   `form:"sort"`
}

func (h *ProductHandler) List(c *gin.Context) {
	var q productListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	page, err := h.catalog.List(c.Request.Context(), service.ProductListInput{
		PageInput: service.PageInput{Page: q.Page, Limit: q.Limit},
		Category:  q.Category,
		Search:    q.Search,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		InStock:   q.InStock == "true",
		Sort:      q.Sort,
	})
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
		"products": page.Products,
	})
}

func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.catalog.Featured(c.Request.Context())
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "product": p})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Error(c, middleware.BindingError(err))
		return
	}
	p, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "product": p})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Product deleted"})
}

// UploadImage accepts a multipart "image" field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.Error(c, domain.Validation("Image is too large"))
			return
		}
		dto.Error(c, domain.Validation("Image file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		dto.Error(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		dto.Error(c, err)
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	url, err := h.catalog.UploadImage(c.Request.Context(), data, contentType)
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "url": url})
}
