package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/config"
	"github.com/Kousuke-irie/chancenmarket-backend/database"
	"github.com/Kousuke-irie/chancenmarket-backend/gcs"
	"github.com/Kousuke-irie/chancenmarket-backend/gemini"
	"github.com/Kousuke-irie/chancenmarket-backend/handlers"
	"github.com/Kousuke-irie/chancenmarket-backend/middleware"
	"github.com/Kousuke-irie/chancenmarket-backend/payment"
	"github.com/Kousuke-irie/chancenmarket-backend/routes"
	"github.com/Kousuke-irie/chancenmarket-backend/service"
	"github.com/Kousuke-irie/chancenmarket-backend/tracing"
	"github.com/Kousuke-irie/chancenmarket-backend/ws"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	// 1. 接続と初期化
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := database.SeedAdmin(db, cfg.Admin, zl); err != nil {
		return err
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			Release:          Version,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	tokens := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.TokenTTL())
	hub := ws.NewHub(zl.Named("ws"))
	opts := []service.Option{service.WithNotifier(hub)}

	// AI (任意)
	if cfg.AI.ProjectID != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			ProjectID:       cfg.AI.ProjectID,
			Location:        cfg.AI.Location,
			Model:           cfg.AI.Model,
			CredentialsFile: cfg.AI.CredentialsFile,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		var gen gemini.Generator = client
		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			gen = gemini.NewCache(client, rdb, cfg.AI.CacheTTL, zl.Named("ai"))
		}
		opts = append(opts, service.WithTextGenerator(gen))
	} else {
		zl.Warn("ai.project_id is not set, AI endpoints are disabled")
	}

	// 決済 (任意)
	if cfg.Stripe.SecretKey != "" {
		stripe, err := payment.NewStripe(cfg.Stripe.SecretKey)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithPayments(stripe, cfg.Stripe.Currency))
	}

	// アップロード (任意)
	var uploads handlers.Uploader
	if cfg.GCS.Bucket != "" {
		uploader, err := gcs.NewUploader(ctx, cfg.GCS.Bucket, cfg.GCS.CredentialsFile, cfg.GCS.URLExpiry)
		if err != nil {
			return err
		}
		defer uploader.Close()
		uploads = uploader
	}

	svc := service.New(db, tokens, zl.Named("service"), opts...)
	h := handlers.New(svc, tokens, hub, uploads, zl.Named("http"))
	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	// 2. ルーティング設定
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.OTLPEndpoint != "" {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.OptionalAuth(tokens), middleware.Logger(zl.Named("access")))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/ws"})))

	limiter := middleware.NewIPRateLimiter(cfg.AI.RatePerSecond, cfg.AI.Burst)
	routes.SetupRoutes(r, h, tokens, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = false
	return config
}
