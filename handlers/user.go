package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 送られた項目だけ更新する
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
	PhoneEnabled *bool   `json:"phone_enabled"`
}

// UpdateProfileHandler PUT /auth/profile と PUT /users/profile
func (h *Handler) UpdateProfileHandler(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileUpdate{
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		PhoneEnabled: req.PhoneEnabled,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserHandler 公開プロフィール (メールアドレスは含まない)
func (h *Handler) GetUserHandler(c *gin.Context) {
	user, err := h.svc.PublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
