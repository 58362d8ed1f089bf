package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/config"
	"github.com/Kousuke-irie/chancenmarket-backend/database"
	"github.com/Kousuke-irie/chancenmarket-backend/gcs"
	"github.com/Kousuke-irie/chancenmarket-backend/handlers"
	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/Kousuke-irie/chancenmarket-backend/routes"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/Kousuke-irie/chancenmarket-backend/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(context.Context, string) (string, error) { return g.reply, g.err }

type fakeUploader struct{}

func (fakeUploader) SignedUploadURL(_ context.Context, kind gcs.Kind, userID, fileName, contentType string) (*gcs.Upload, error) {
	object, err := gcs.ObjectName(kind, userID, fileName, contentType, time.Now())
	if err != nil {
		return nil, err
	}
	return &gcs.Upload{UploadURL: "https://signed.example/" + object, PublicURL: gcs.PublicURL("bucket", object), Object: object}, nil
}

type app struct {
	engine *gin.Engine
	db     *gorm.DB
	hub    *ws.Hub
}

type appOptions struct {
	generator service.TextGenerator
	uploads   handlers.Uploader
	limiter   *middleware.IPRateLimiter
}

func newApp(t *testing.T, o appOptions) *app {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := zap.NewNop()
	tokens := auth.NewIssuer("test-secret", time.Hour)
	hub := ws.NewHub(log)
	opts := []service.Option{service.WithNotifier(hub)}
	if o.generator != nil {
		opts = append(opts, service.WithTextGenerator(o.generator))
	}
	svc := service.New(db, tokens, log, opts...)
	require.NoError(t, handlers.RegisterValidators())

	r := gin.New()
	r.Use(middleware.OptionalAuth(tokens))
	routes.SetupRoutes(r, handlers.New(svc, tokens, hub, o.uploads, log), tokens, o.limiter)
	return &app{engine: r, db: db, hub: hub}
}

func (a *app) call(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type session struct {
	ID    string
	Token string
}

func (a *app) register(t *testing.T, name, email string) session {
	t.Helper()
	w := a.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"name": name, "email": email, "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}](t, w)
	return session{ID: resp.User.ID, Token: resp.Token}
}

// admin ロールを付けて再ログインする
func (a *app) admin(t *testing.T, name, email string) session {
	t.Helper()
	s := a.register(t, name, email)
	require.NoError(t, a.db.Model(&models.User{}).Where("id = ?", s.ID).Update("role", models.RoleAdmin).Error)
	w := a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	s.Token = decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	return s
}

func (a *app) listing(t *testing.T, s session, title string, price float64) models.Listing {
	t.Helper()
	w := a.call(t, http.MethodPost, "/api/listings", s.Token, gin.H{
		"title": title, "description": "gut erhalten", "price": price, "category": "other",
		"images": []string{"https://img.example/" + title + ".jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.Listing](t, w)
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func TestHealth(t *testing.T) {
	a := newApp(t, appOptions{})
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodGet, "/", "", nil).Code)
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t, appOptions{})
	bea := a.register(t, "Bea", "bea@example.com")
	require.NotEmpty(t, bea.Token)

	w := a.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"name": "Bea", "email": "BEA@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "E-Mail wird bereits verwendet", errorOf(t, w))

	w = a.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"name": "Weak", "email": "weak@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"name": "Nomail", "email": "not-an-email", "password": "Secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "bea@example.com", "password": "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E-Mail oder Passwort ist falsch", errorOf(t, w))

	w = a.call(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.call(t, http.MethodGet, "/api/auth/profile", bea.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[map[string]interface{}](t, w)
	assert.Equal(t, "bea@example.com", profile["email"])
	assert.NotContains(t, profile, "password")

	w = a.call(t, http.MethodPut, "/api/users/profile", bea.Token, gin.H{"name": "Beatrix", "phone_enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Beatrix", decode[models.User](t, w).Name)

	w = a.call(t, http.MethodGet, "/api/users/"+bea.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decode[map[string]interface{}](t, w)
	assert.Equal(t, "Beatrix", public["name"])
	assert.NotContains(t, public, "email")

	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodGet, "/api/users/ghost", "", nil).Code)
}

func TestCategories(t *testing.T) {
	a := newApp(t, appOptions{})
	w := a.call(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, w), 8)

	assert.Equal(t, http.StatusOK, a.call(t, http.MethodGet, "/api/categories/cars", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodGet, "/api/categories/boats", "", nil).Code)
}

func TestListingEndpoints(t *testing.T) {
	a := newApp(t, appOptions{})
	sam := a.register(t, "Sam", "sam@example.com")
	bea := a.register(t, "Bea", "bea@example.com")

	w := a.call(t, http.MethodPost, "/api/listings", sam.Token, gin.H{"title": "Boot", "price": 10, "category": "boats"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.call(t, http.MethodPost, "/api/listings", "", gin.H{"title": "Sofa", "price": 10, "category": "other"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sofa := a.listing(t, sam, "Sofa", 650)
	a.listing(t, sam, "Lampe", 20)

	w = a.call(t, http.MethodGet, "/api/listings?search=Sof&max_price=1000", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Listing](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, sofa.ID, found[0].ID)

	w = a.call(t, http.MethodGet, "/api/listings?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(t, http.MethodGet, "/api/listings/"+sofa.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[models.Listing](t, w).Views)

	w = a.call(t, http.MethodGet, "/api/listings/my", sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Listing](t, w), 2)

	w = a.call(t, http.MethodPut, "/api/listings/"+sofa.ID, bea.Token, gin.H{"price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.call(t, http.MethodPut, "/api/listings/"+sofa.ID, sam.Token, gin.H{"price": 600})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 600.0, decode[models.Listing](t, w).Price)

	assert.Equal(t, http.StatusForbidden, a.call(t, http.MethodDelete, "/api/listings/"+sofa.ID, bea.Token, nil).Code)
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodDelete, "/api/listings/"+sofa.ID, sam.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodGet, "/api/listings/"+sofa.ID, "", nil).Code)
}

func TestOfferEndpoints(t *testing.T) {
	a := newApp(t, appOptions{})
	sam := a.register(t, "Sam", "sam@example.com")
	bea := a.register(t, "Bea", "bea@example.com")
	sofa := a.listing(t, sam, "Sofa", 650)

	w := a.call(t, http.MethodPost, "/api/offers", bea.Token, gin.H{"listing_id": sofa.ID, "offered_price": 500, "message": "Abholung heute"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	offer := decode[models.Offer](t, w)
	assert.Equal(t, models.OfferPending, offer.Status)
	assert.Equal(t, sam.ID, offer.SellerID)

	w = a.call(t, http.MethodGet, "/api/offers/received", sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	received := decode[[]map[string]interface{}](t, w)
	require.Len(t, received, 1)
	assert.Equal(t, "Bea", received[0]["buyer_name"])
	assert.Equal(t, 650.0, received[0]["original_price"])

	w = a.call(t, http.MethodGet, "/api/offers/my", sam.Token, nil)
	assert.Len(t, decode[[]map[string]interface{}](t, w), 1)

	w = a.call(t, http.MethodGet, "/api/offers/sent", bea.Token, nil)
	sent := decode[[]map[string]interface{}](t, w)
	require.Len(t, sent, 1)
	assert.Equal(t, "Sam", sent[0]["seller_name"])

	w = a.call(t, http.MethodPost, "/api/offers/action", sam.Token, gin.H{"offer_id": offer.ID, "action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusForbidden, a.call(t, http.MethodPost, "/api/offers/"+offer.ID+"/accept", bea.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.call(t, http.MethodPost, "/api/offers/"+offer.ID+"/maybe", sam.Token, nil).Code)

	w = a.call(t, http.MethodPost, "/api/offers/"+offer.ID+"/accept", sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OfferAccepted, decode[map[string]string](t, w)["status"])

	w = a.call(t, http.MethodPost, "/api/offers/action", sam.Token, gin.H{"offer_id": offer.ID, "action": "reject"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 決済プロバイダー未設定
	w = a.call(t, http.MethodPost, "/api/offers/"+offer.ID+"/payment-intent", bea.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, errorOf(t, w))

	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodPost, "/api/offers/ghost/reject", sam.Token, nil).Code)
}

func TestMessageEndpoints(t *testing.T) {
	a := newApp(t, appOptions{})
	sam := a.register(t, "Sam", "sam@example.com")
	bea := a.register(t, "Bea", "bea@example.com")
	sofa := a.listing(t, sam, "Sofa", 650)

	w := a.call(t, http.MethodPost, "/api/messages", bea.Token, gin.H{"to_user_id": sam.ID, "listing_id": sofa.ID, "content": "Noch da?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.call(t, http.MethodPost, "/api/messages", bea.Token, gin.H{"to_user_id": sam.ID, "listing_id": sofa.ID, "content": "x", "message_type": "video"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.call(t, http.MethodPost, "/api/messages", bea.Token, gin.H{"to_user_id": "ghost", "listing_id": sofa.ID, "content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.call(t, http.MethodGet, "/api/messages/unread-count", sam.Token, nil)
	assert.Equal(t, 1.0, decode[map[string]interface{}](t, w)["count"])

	w = a.call(t, http.MethodGet, "/api/messages/conversations", sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	conversations := decode[[]service.Conversation](t, w)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Bea", conversations[0].OtherUserName)
	assert.Equal(t, "Sofa", conversations[0].ListingTitle)

	w = a.call(t, http.MethodGet, "/api/messages/"+sofa.ID+"/"+bea.ID, sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Message](t, w), 1)

	w = a.call(t, http.MethodPost, "/api/messages/mark-read/"+sofa.ID+"/"+bea.ID, sam.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.call(t, http.MethodGet, "/api/messages/unread-count", sam.Token, nil)
	assert.Equal(t, 0.0, decode[map[string]interface{}](t, w)["count"])
}

func TestReviewAndFavoriteEndpoints(t *testing.T) {
	a := newApp(t, appOptions{})
	sam := a.register(t, "Sam", "sam@example.com")
	bea := a.register(t, "Bea", "bea@example.com")
	sofa := a.listing(t, sam, "Sofa", 650)

	w := a.call(t, http.MethodPost, "/api/reviews", bea.Token, gin.H{"reviewed_user_id": sam.ID, "rating": 4, "comment": "Top"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.call(t, http.MethodPost, "/api/reviews", bea.Token, gin.H{"reviewed_user_id": sam.ID, "rating": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.call(t, http.MethodPost, "/api/reviews", sam.Token, gin.H{"reviewed_user_id": bea.ID, "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(t, http.MethodGet, "/api/reviews/"+sam.ID, "", nil)
	assert.Len(t, decode[[]models.Review](t, w), 1)
	w = a.call(t, http.MethodGet, "/api/users/"+sam.ID, "", nil)
	assert.Equal(t, 4.0, decode[map[string]interface{}](t, w)["rating"])

	path := "/api/favorites/" + sofa.ID
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodPost, path, bea.Token, nil).Code)
	assert.Equal(t, http.StatusConflict, a.call(t, http.MethodPost, path, bea.Token, nil).Code)
	w = a.call(t, http.MethodGet, "/api/favorites/check/"+sofa.ID, bea.Token, nil)
	assert.Equal(t, true, decode[map[string]bool](t, w)["is_favorited"])
	w = a.call(t, http.MethodGet, "/api/favorites", bea.Token, nil)
	assert.Len(t, decode[[]models.Listing](t, w), 1)
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodDelete, path, bea.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodDelete, path, bea.Token, nil).Code)
}

func TestSupportAndAdminEndpoints(t *testing.T) {
	a := newApp(t, appOptions{})
	root := a.admin(t, "Admin", "root@example.com")
	bea := a.register(t, "Bea", "bea@example.com")
	a.listing(t, bea, "Sofa", 650)

	w := a.call(t, http.MethodPost, "/api/support", bea.Token, gin.H{"subject": "Hilfe", "message": "Passwort vergessen"})
	require.Equal(t, http.StatusOK, w.Code)
	ticket := decode[models.SupportTicket](t, w)
	assert.Equal(t, models.TicketOpen, ticket.Status)

	assert.Equal(t, http.StatusForbidden, a.call(t, http.MethodGet, "/api/admin/stats", bea.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.call(t, http.MethodGet, "/api/admin/stats", "", nil).Code)

	w = a.call(t, http.MethodGet, "/api/admin/stats", root.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.Stats{Users: 2, Listings: 1, OpenTickets: 1}, decode[service.Stats](t, w))

	w = a.call(t, http.MethodPost, "/api/admin/support/"+ticket.ID+"/reply?reply_message=Wir+helfen", root.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.call(t, http.MethodPost, "/api/admin/support/"+ticket.ID+"/reply", root.Token, gin.H{"message": "Erledigt"})
	require.Equal(t, http.StatusOK, w.Code)
	w = a.call(t, http.MethodPut, "/api/admin/support/"+ticket.ID+"/status", root.Token, gin.H{"status": "closed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = a.call(t, http.MethodPut, "/api/admin/support/"+ticket.ID+"/status", root.Token, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.call(t, http.MethodGet, "/api/support/my", bea.Token, nil)
	mine := decode[[]models.SupportTicket](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, models.TicketClosed, mine[0].Status)
	require.Len(t, mine[0].Replies, 2)
	assert.Equal(t, "Wir helfen", mine[0].Replies[0].Message)

	w = a.call(t, http.MethodGet, "/api/admin/support", root.Token, nil)
	assert.Len(t, decode[[]models.SupportTicket](t, w), 1)
	w = a.call(t, http.MethodGet, "/api/admin/users", root.Token, nil)
	assert.Len(t, decode[[]models.User](t, w), 2)
	w = a.call(t, http.MethodGet, "/api/admin/listings", root.Token, nil)
	assert.Len(t, decode[[]models.Listing](t, w), 1)

	assert.Equal(t, http.StatusBadRequest, a.call(t, http.MethodDelete, "/api/admin/users/"+root.ID, root.Token, nil).Code)
	assert.Equal(t, http.StatusOK, a.call(t, http.MethodDelete, "/api/admin/users/"+bea.ID, root.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(t, http.MethodDelete, "/api/admin/users/"+bea.ID, root.Token, nil).Code)

	w = a.call(t, http.MethodGet, "/api/admin/stats", root.Token, nil)
	assert.Equal(t, service.Stats{Users: 1, Listings: 0, Messages: 0, Offers: 0, OpenTickets: 0}, decode[service.Stats](t, w))
}

func TestAIEndpoints(t *testing.T) {
	gen := &fakeGenerator{reply: "Ein schönes Sofa."}
	a := newApp(t, appOptions{generator: gen, limiter: middleware.NewIPRateLimiter(0.001, 2)})

	w := a.call(t, http.MethodPost, "/api/ai/generate-description", "", gin.H{"title": "Sofa", "category": "furniture"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ein schönes Sofa.", decode[map[string]string](t, w)["description"])

	gen.err = errors.New("dial tcp 10.0.0.1:443: connection refused")
	w = a.call(t, http.MethodPost, "/api/ai/suggest-price", "", gin.H{"title": "Sofa"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Fehler beim Vorschlagen des Preises", errorOf(t, w))

	w = a.call(t, http.MethodPost, "/api/ai/suggest-price", "", gin.H{"title": "Sofa"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUploadEndpoint(t *testing.T) {
	disabled := newApp(t, appOptions{})
	bea := disabled.register(t, "Bea", "bea@example.com")
	w := disabled.call(t, http.MethodPost, "/api/uploads/url", bea.Token, gin.H{"kind": "listing_image", "file_name": "a.jpg", "content_type": "image/jpeg"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	a := newApp(t, appOptions{uploads: fakeUploader{}})
	bea = a.register(t, "Bea", "bea@example.com")
	w = a.call(t, http.MethodPost, "/api/uploads/url", bea.Token, gin.H{"kind": "listing_image", "file_name": "a.jpg", "content_type": "image/jpeg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	upload := decode[gcs.Upload](t, w)
	assert.True(t, strings.HasPrefix(upload.Object, "listings/"+bea.ID+"/"), upload.Object)
	assert.Contains(t, upload.PublicURL, upload.Object)

	w = a.call(t, http.MethodPost, "/api/uploads/url", bea.Token, gin.H{"kind": "message_audio", "file_name": "a.jpg", "content_type": "image/jpeg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.call(t, http.MethodPost, "/api/uploads/url", bea.Token, gin.H{"kind": "avatar", "file_name": "a.jpg", "content_type": "image/jpeg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.call(t, http.MethodPost, "/api/uploads/url", "", gin.H{"kind": "listing_image", "file_name": "a.jpg", "content_type": "image/jpeg"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebsocketPushesNewMessages(t *testing.T) {
	a := newApp(t, appOptions{})
	sam := a.register(t, "Sam", "sam@example.com")
	bea := a.register(t, "Bea", "bea@example.com")
	sofa := a.listing(t, sam, "Sofa", 650)

	srv := httptest.NewServer(a.engine)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token="

	_, resp, err := websocket.DefaultDialer.Dial(base+"invalid", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+sam.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return a.hub.Online(sam.ID) == 1 }, time.Second, 10*time.Millisecond)
	w := a.call(t, http.MethodPost, "/api/messages", bea.Token, gin.H{"to_user_id": sam.ID, "listing_id": sofa.ID, "content": "Noch da?"})
	require.Equal(t, http.StatusOK, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var payload ws.Payload
	require.NoError(t, conn.ReadJSON(&payload))
	assert.Equal(t, ws.TypeChatMessage, payload.Type)
	assert.Equal(t, "Noch da?", payload.Message.Content)
	assert.Equal(t, bea.ID, payload.Message.FromUserID)
}
