package handlers

import (
	"net/http"

	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	var typ *models.TransactionType
	if raw := c.Query("type"); raw != "" {
		t := models.TransactionType(raw)
		typ = &t
	}

	categories, err := h.categoryService.List(typ)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetByKey(c *gin.Context) {
	c.JSON(http.StatusOK, h.categoryService.Get(c.Param("key")))
}
