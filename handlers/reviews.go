package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

type CreateReviewRequest struct {
	ReviewedUserID string  `json:"reviewed_user_id" binding:"required"`
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment"`
}

// CreateReviewHandler 評価を追加し、相手の平均評価を更新する
func (h *Handler) CreateReviewHandler(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.svc.AddReview(c.Request.Context(), middleware.UserID(c), service.ReviewInput{
		ReviewedUserID: req.ReviewedUserID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) GetReviewsHandler(c *gin.Context) {
	reviews, err := h.svc.Reviews(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
