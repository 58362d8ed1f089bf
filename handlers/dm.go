package handlers

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	ToUserID    string `json:"to_user_id" binding:"required"`
	ListingID   string `json:"listing_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type" binding:"omitempty,msgtype"`
}

// SendMessageHandler 保存後、受信者が接続中ならWebSocketで届く
func (h *Handler) SendMessageHandler(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), middleware.UserID(c), service.SendMessageInput{
		ToUserID:    req.ToUserID,
		ListingID:   req.ListingID,
		Content:     req.Content,
		MessageType: req.MessageType,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) ConversationsHandler(c *gin.Context) {
	conversations, err := h.svc.Conversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *Handler) UnreadCountHandler(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) ThreadHandler(c *gin.Context) {
	messages, err := h.svc.Thread(c.Request.Context(), c.Param("listing_id"), middleware.UserID(c), c.Param("other_user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) MarkReadHandler(c *gin.Context) {
	updated, err := h.svc.MarkThreadRead(c.Request.Context(), c.Param("listing_id"), middleware.UserID(c), c.Param("other_user_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Nachrichten als gelesen markiert", "updated": updated})
}
