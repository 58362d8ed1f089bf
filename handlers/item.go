package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

type CreateListingRequest struct {
	Title          string                 `json:"title" binding:"required"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price" binding:"gte=0"`
	Category       string                 `json:"category" binding:"required,category"`
	Images         []string               `json:"images"`
	Video          *string                `json:"video"`
	CategoryFields map[string]interface{} `json:"category_fields"`
}

type UpdateListingRequest struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Price          *float64               `json:"price" binding:"omitempty,gte=0"`
	Category       *string                `json:"category" binding:"omitempty,category"`
	Images         *[]string              `json:"images"`
	Video          *string                `json:"video"`
	CategoryFields map[string]interface{} `json:"category_fields"`
}

type ListingQuery struct {
	Category string   `form:"category"`
	Search   string   `form:"search"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
	Skip     int      `form:"skip" binding:"gte=0"`
	Limit    int      `form:"limit" binding:"gte=0"`
}

func (h *Handler) CreateListingHandler(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.svc.CreateListing(c.Request.Context(), middleware.UserID(c), service.ListingInput{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Category:       req.Category,
		Images:         req.Images,
		Video:          req.Video,
		CategoryFields: req.CategoryFields,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetListingsHandler 一覧 (カテゴリ・検索・価格帯・ページング)
func (h *Handler) GetListingsHandler(c *gin.Context) {
	var q ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	listings, err := h.svc.ListListings(c.Request.Context(), service.ListingFilter{
		Category: q.Category,
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Skip:     q.Skip,
		Limit:    q.Limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *Handler) GetMyListingsHandler(c *gin.Context) {
	listings, err := h.svc.MyListings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetListingHandler 詳細を返し、閲覧数を1増やす
func (h *Handler) GetListingHandler(c *gin.Context) {
	listing, err := h.svc.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) UpdateListingHandler(c *gin.Context) {
	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.svc.UpdateListing(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.ListingUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Category:       req.Category,
		Images:         req.Images,
		Video:          req.Video,
		CategoryFields: req.CategoryFields,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteListingHandler 出品者本人か管理者のみ
func (h *Handler) DeleteListingHandler(c *gin.Context) {
	if err := h.svc.DeleteListing(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, "Anzeige gelöscht")
}

func (h *Handler) AdminListingsHandler(c *gin.Context) {
	listings, err := h.svc.AllListings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}
