package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/gcs"
	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/Kousuke-irie/chancenmarket-backend/ws"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgInternal = "Interner Serverfehler"

// Uploader 署名付きアップロードURLの発行 (GCS)
type Uploader interface {
	SignedUploadURL(ctx context.Context, kind gcs.Kind, userID, fileName, contentType string) (*gcs.Upload, error)
}

type Handler struct {
	svc     *service.Service
	tokens  *auth.Issuer
	hub     *ws.Hub
	uploads Uploader
	log     *zap.Logger
}

// New uploads は nil でもよい (アップロード無効)
func New(svc *service.Service, tokens *auth.Issuer, hub *ws.Hub, uploads Uploader, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, hub: hub, uploads: uploads, log: log}
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail サービスのエラーをレスポンスに変換する
func (h *Handler) fail(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		status := statusOf(se.Kind)
		if status >= http.StatusInternalServerError {
			h.report(c, err)
		}
		c.AbortWithStatusJSON(status, gin.H{"error": se.Message})
		return
	}
	h.report(c, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

func (h *Handler) report(c *gin.Context, err error) {
	_ = c.Error(err)
	h.log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// badRequest バインド失敗
func badRequest(c *gin.Context, err error) {
	msg := "Ungültige Anfrage"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg = "Ungültiges Feld: " + verrs[0].Field()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func actor(c *gin.Context) service.Actor {
	return service.Actor{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
