package handlers

import (
	"errors"
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/gcs"
	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

type UploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=listing_image message_audio"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLHandler GCS への署名付きアップロードURLを返す
// フロントエンドは upload_url に直接 PUT し、public_url を出品やメッセージに使う
func (h *Handler) UploadURLHandler(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Uploads sind nicht verfügbar"})
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	upload, err := h.uploads.SignedUploadURL(c.Request.Context(), gcs.Kind(req.Kind), middleware.UserID(c), req.FileName, req.ContentType)
	switch {
	case errors.Is(err, gcs.ErrUnknownKind), errors.Is(err, gcs.ErrInvalidContentType), errors.Is(err, gcs.ErrFileName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
