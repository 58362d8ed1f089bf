package routes

import (
	"net/http"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/handlers"
	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes /api 以下のルーティング
func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens *auth.Issuer, aiLimiter *middleware.IPRateLimiter) {
	// 疎通確認用
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Chancenmarket API"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(tokens)

	// 認証
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterHandler)
		authGroup.POST("/login", h.LoginHandler)
		authGroup.GET("/profile", requireAuth, h.ProfileHandler)
		authGroup.PUT("/profile", requireAuth, h.UpdateProfileHandler)
	}

	users := api.Group("/users")
	{
		users.PUT("/profile", requireAuth, h.UpdateProfileHandler)
		users.GET("/:id", h.GetUserHandler)
	}

	// カテゴリ
	api.GET("/categories", h.GetCategoriesHandler)
	api.GET("/categories/:id", h.GetCategoryHandler)

	// 出品
	listings := api.Group("/listings")
	{
		listings.POST("", requireAuth, h.CreateListingHandler)
		listings.GET("", h.GetListingsHandler)
		listings.GET("/my", requireAuth, h.GetMyListingsHandler)
		listings.GET("/:id", h.GetListingHandler)
		listings.PUT("/:id", requireAuth, h.UpdateListingHandler)
		listings.DELETE("/:id", requireAuth, h.DeleteListingHandler)
	}

	// メッセージ
	messages := api.Group("/messages", requireAuth)
	{
		messages.POST("", h.SendMessageHandler)
		messages.GET("/conversations", h.ConversationsHandler)
		messages.GET("/unread-count", h.UnreadCountHandler)
		messages.GET("/:listing_id/:other_user_id", h.ThreadHandler)
		messages.POST("/mark-read/:listing_id/:other_user_id", h.MarkReadHandler)
	}

	// 価格交渉
	offers := api.Group("/offers", requireAuth)
	{
		offers.POST("", h.CreateOfferHandler)
		offers.GET("/sent", h.SentOffersHandler)
		offers.GET("/received", h.ReceivedOffersHandler)
		offers.GET("/my", h.ReceivedOffersHandler)
		offers.POST("/action", h.OfferActionHandler)
		offers.POST("/:id/payment-intent", h.CreatePaymentIntentHandler)
		offers.POST("/:id/:action", h.OfferPathActionHandler)
	}

	// 評価
	api.POST("/reviews", requireAuth, h.CreateReviewHandler)
	api.GET("/reviews/:user_id", h.GetReviewsHandler)

	// お気に入り
	favorites := api.Group("/favorites", requireAuth)
	{
		favorites.GET("", h.GetFavoritesHandler)
		favorites.GET("/check/:listing_id", h.CheckFavoriteHandler)
		favorites.POST("/:listing_id", h.AddFavoriteHandler)
		favorites.DELETE("/:listing_id", h.RemoveFavoriteHandler)
	}

	// サポート
	api.POST("/support", requireAuth, h.CreateTicketHandler)
	api.GET("/support/my", requireAuth, h.MyTicketsHandler)

	api.POST("/uploads/url", requireAuth, h.UploadURLHandler)

	// AI
	ai := api.Group("/ai")
	if aiLimiter != nil {
		ai.Use(aiLimiter.Middleware())
	}
	{
		ai.POST("/generate-description", h.GenerateDescriptionHandler)
		ai.POST("/suggest-price", h.SuggestPriceHandler)
	}

	// 管理者
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.GET("/users", h.AdminUsersHandler)
		admin.DELETE("/users/:id", h.AdminDeleteUserHandler)
		admin.GET("/listings", h.AdminListingsHandler)
		admin.DELETE("/listings/:id", h.DeleteListingHandler)
		admin.GET("/support", h.AdminTicketsHandler)
		admin.POST("/support/:id/reply", h.ReplyTicketHandler)
		admin.PUT("/support/:id/status", h.TicketStatusHandler)
		admin.GET("/stats", h.AdminStatsHandler)
	}

	// WebSocket エンドポイント
	api.GET("/ws", h.WSHandler)
}
