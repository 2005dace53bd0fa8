package handlers

import (
	"net/http"
	"strings"

	"divelink/internal/db"
	"divelink/internal/models"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct{}

func NewShopHandler() *ShopHandler {
	return &ShopHandler{}
}

// List returns the catalog, optionally filtered by category.
func (h *ShopHandler) List(c *gin.Context) {
	query := db.DB.Model(&models.Product{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ShopHandler) Detail(c *gin.Context) {
	var product models.Product
	if err := db.DB.First(&product, utils.StringToInt(c.Param("id"))).Error; err != nil {
		jsonError(c, http.StatusNotFound, "상품을 찾을 수 없습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type productForm struct {
	Name        string `json:"name" binding:"required"`
	Price       int    `json:"price" binding:"required,min=0"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// Create adds a product. Admin only, enforced by the route group.
func (h *ShopHandler) Create(c *gin.Context) {
	var form productForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "상품명과 가격을 확인해 주세요.")
		return
	}

	product := models.Product{
		Name:        strings.TrimSpace(form.Name),
		Price:       form.Price,
		Description: form.Description,
		ImageURL:    form.ImageURL,
	}
	if form.Category != "" {
		product.Category = form.Category
	}

	if err := db.DB.Create(&product).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ShopHandler) Update(c *gin.Context) {
	var product models.Product
	if err := db.DB.First(&product, utils.StringToInt(c.Param("id"))).Error; err != nil {
		jsonError(c, http.StatusNotFound, "상품을 찾을 수 없습니다.")
		return
	}

	var form productForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "상품명과 가격을 확인해 주세요.")
		return
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(form.Name),
		"price":       form.Price,
		"description": form.Description,
		"image_url":   form.ImageURL,
	}
	if form.Category != "" {
		updates["category"] = form.Category
	}
	if err := db.DB.Model(&product).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ShopHandler) Delete(c *gin.Context) {
	result := db.DB.Delete(&models.Product{}, utils.StringToInt(c.Param("id")))
	if result.Error != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	if result.RowsAffected == 0 {
		jsonError(c, http.StatusNotFound, "상품을 찾을 수 없습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
