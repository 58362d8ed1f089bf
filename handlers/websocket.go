package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WSHandler GET /ws?token=...
// トークンはクエリで受け取る
func (h *Handler) WSHandler(c *gin.Context) {
	claims, err := h.tokens.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ungültiges Token"})
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, claims.UserID); err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
	}
}
