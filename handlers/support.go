package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ReplyTicketRequest reply_message クエリでも受け付ける
type ReplyTicketRequest struct {
	Message string `json:"message"`
}

type TicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open closed"`
}

func (h *Handler) CreateTicketHandler(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ticket, err := h.svc.CreateTicket(c.Request.Context(), middleware.UserID(c), req.Subject, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) MyTicketsHandler(c *gin.Context) {
	tickets, err := h.svc.MyTickets(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *Handler) AdminTicketsHandler(c *gin.Context) {
	tickets, err := h.svc.AllTickets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *Handler) ReplyTicketHandler(c *gin.Context) {
	text := c.Query("reply_message")
	if text == "" {
		var req ReplyTicketRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
		}
		text = req.Message
	}

	ticket, err := h.svc.ReplyTicket(c.Request.Context(), c.Param("id"), text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Antwort gesendet", "ticket": ticket})
}

func (h *Handler) TicketStatusHandler(c *gin.Context) {
	var req TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.SetTicketStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status aktualisiert", "status": req.Status})
}
