package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

type DescriptionRequest struct {
	Title          string                 `json:"title" binding:"required"`
	Category       string                 `json:"category"`
	CategoryFields map[string]interface{} `json:"category_fields"`
}

type PriceRequest struct {
	Title          string                 `json:"title" binding:"required"`
	Category       string                 `json:"category"`
	Condition      string                 `json:"condition"`
	CategoryFields map[string]interface{} `json:"category_fields"`
}

// GenerateDescriptionHandler AIで説明文を作る。失敗時は汎用の500
func (h *Handler) GenerateDescriptionHandler(c *gin.Context) {
	var req DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	text, err := h.svc.GenerateDescription(c.Request.Context(), service.DescriptionInput{
		Title:          req.Title,
		Category:       req.Category,
		CategoryFields: req.CategoryFields,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text})
}

func (h *Handler) SuggestPriceHandler(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	text, err := h.svc.SuggestPrice(c.Request.Context(), service.PriceInput{
		Title:          req.Title,
		Category:       req.Category,
		Condition:      req.Condition,
		CategoryFields: req.CategoryFields,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggested_price": text})
}
