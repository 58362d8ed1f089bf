package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

// CreatePaymentIntentHandler 承諾された交渉の買い手が交渉価格で支払う
func (h *Handler) CreatePaymentIntentHandler(c *gin.Context) {
	intent, err := h.svc.CreateOfferPayment(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}
