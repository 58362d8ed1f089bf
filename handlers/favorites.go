package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AddFavoriteHandler(c *gin.Context) {
	if err := h.svc.AddFavorite(c.Request.Context(), middleware.UserID(c), c.Param("listing_id")); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, "Zu Favoriten hinzugefügt")
}

func (h *Handler) RemoveFavoriteHandler(c *gin.Context) {
	if err := h.svc.RemoveFavorite(c.Request.Context(), middleware.UserID(c), c.Param("listing_id")); err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, "Aus Favoriten entfernt")
}

func (h *Handler) GetFavoritesHandler(c *gin.Context) {
	listings, err := h.svc.Favorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *Handler) CheckFavoriteHandler(c *gin.Context) {
	ok, err := h.svc.IsFavorite(c.Request.Context(), middleware.UserID(c), c.Param("listing_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorited": ok})
}
