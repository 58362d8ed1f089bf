package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

type CreateOfferRequest struct {
	ListingID    string  `json:"listing_id" binding:"required"`
	SellerID     string  `json:"seller_id"`
	OfferedPrice float64 `json:"offered_price" binding:"required"`
	Message      *string `json:"message"`
}

type OfferActionRequest struct {
	OfferID string `json:"offer_id" binding:"required"`
	Action  string `json:"action" binding:"required,offeraction"`
}

func (h *Handler) CreateOfferHandler(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	offer, err := h.svc.ProposeOffer(c.Request.Context(), middleware.UserID(c), service.ProposeInput{
		ListingID:    req.ListingID,
		SellerID:     req.SellerID,
		OfferedPrice: req.OfferedPrice,
		Message:      req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *Handler) SentOffersHandler(c *gin.Context) {
	offers, err := h.svc.SentOffers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// ReceivedOffersHandler /offers/received と /offers/my
func (h *Handler) ReceivedOffersHandler(c *gin.Context) {
	offers, err := h.svc.ReceivedOffers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) resolveOffer(c *gin.Context, offerID, action string) {
	offer, err := h.svc.ResolveOffer(c.Request.Context(), offerID, middleware.UserID(c), action)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Angebot aktualisiert", "status": offer.Status})
}

// OfferActionHandler POST /offers/action
func (h *Handler) OfferActionHandler(c *gin.Context) {
	var req OfferActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.resolveOffer(c, req.OfferID, req.Action)
}

// OfferPathActionHandler POST /offers/:id/:action
func (h *Handler) OfferPathActionHandler(c *gin.Context) {
	h.resolveOffer(c, c.Param("id"), c.Param("action"))
}
