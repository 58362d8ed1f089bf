package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminUsersHandler(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminDeleteUserHandler ユーザーと関連データをまとめて削除する
func (h *Handler) AdminDeleteUserHandler(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, "Benutzer gelöscht")
}

func (h *Handler) AdminStatsHandler(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
