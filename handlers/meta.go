package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/catalog"
	"github.com/gin-gonic/gin"
)

// GetCategoriesHandler カテゴリと入力項目の定義
func (h *Handler) GetCategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.All())
}

func (h *Handler) GetCategoryHandler(c *gin.Context) {
	category, ok := catalog.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kategorie nicht gefunden"})
		return
	}
	c.JSON(http.StatusOK, category)
}
