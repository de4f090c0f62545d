package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"podcastcrm/internal/apperror"
	"podcastcrm/internal/assistant"
	"podcastcrm/internal/brand"
	"podcastcrm/internal/config"
	"podcastcrm/internal/database"
	"podcastcrm/internal/domain/admin"
	"podcastcrm/internal/domain/catalog"
	"podcastcrm/internal/domain/lead"
	"podcastcrm/internal/domain/widget"
	"podcastcrm/internal/middleware"
	jwtsvc "podcastcrm/internal/pkg/jwt"
	"podcastcrm/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	classifier := apperror.NewClassifier(zl)

	lock, err := database.LockLocal(cfg.LocalStorePath)
	if err != nil {
		zl.Fatal("lock local store", zap.Error(err))
	}
	if lock != nil {
		defer func() { _ = lock.Unlock() }()
	}

	localDB, err := database.OpenLocal(cfg.LocalStorePath)
	if err != nil {
		zl.Fatal("open local store", zap.Error(err))
	}
	localLeads := lead.NewLocalStore(localDB)
	if err := localLeads.Migrate(); err != nil {
		zl.Fatal("migrate local store", zap.Error(err))
	}

	var (
		remoteLeads *lead.Repository
		episodeRepo *catalog.Repository
	)
	if cfg.RemoteConfigured() {
		remoteDB, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("connect remote store", zap.Error(err))
		}
		remoteLeads = lead.NewRepository(remoteDB)
		episodeRepo = catalog.NewRepository(remoteDB)
		if err := remoteLeads.Migrate(); err != nil {
			zl.Fatal("migrate leads", zap.Error(err))
		}
		if err := episodeRepo.Migrate(); err != nil {
			zl.Fatal("migrate episodes", zap.Error(err))
		}
	} else {
		zl.Warn("DATABASE_URL not set, leads are kept in the local store only", zap.String("path", cfg.LocalStorePath))
	}

	leadStore := lead.NewStore(remoteLeads, localLeads, classifier, zl)

	episodes, err := catalog.NewService(ctx, episodeRepo, zl)
	if err != nil {
		zl.Fatal("load episodes", zap.Error(err))
	}

	b, err := brand.Load(cfg.BrandConfigPath)
	if err != nil {
		zl.Fatal("load brand", zap.Error(err))
	}

	starter := newStarter(cfg, b, episodes, classifier, zl)
	registry := widget.NewRegistry(widget.Deps{
		Starter:    starter,
		Dispatcher: assistant.NewDispatcher(b, zl),
		Leads:      leadStore,
		Episodes:   episodes,
		Log:        zl,
	})

	scheduler := cron.New()
	if err := episodes.RegisterRefresh(scheduler, cfg.CatalogRefresh); err != nil {
		zl.Fatal("schedule catalog refresh", zap.Error(err))
	}
	if err := registry.RegisterSweep(scheduler, cfg.WidgetSweep, cfg.WidgetIdleTTL); err != nil {
		zl.Fatal("schedule widget sweep", zap.Error(err))
	}
	scheduler.Start()

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	adminService := admin.NewService(admin.Credentials{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
	}, tokens, zl)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.ErrorLogger(zl), middleware.RequestLogger(zl), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"remote_store": leadStore.RemoteConfigured(),
			"widgets":      registry.Len(),
		})
	})

	leadHandler := lead.NewHandler(leadStore, cfg.DefaultLanguage)
	adminHandler := admin.NewHandler(adminService)

	v1 := r.Group("/api/v1")
	{
		leadHandler.RegisterRoutes(v1)
		catalog.NewHandler(episodes).RegisterRoutes(v1)
		widget.NewHandler(registry, cfg.DefaultLanguage).
			RegisterRoutes(v1, widget.NewWSHandler(registry, cfg.CORSAllowedOrigins, zl))
		adminHandler.RegisterRoutes(v1)

		protected := v1.Group("/admin")
		protected.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
		{
			adminHandler.RegisterProtectedRoutes(protected)
			leadHandler.RegisterAdminRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("listening", zap.String("addr", srv.Addr), zap.String("llm", cfg.LLMProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}

func newStarter(cfg *config.Config, b *brand.Brand, episodes *catalog.Service, classifier *apperror.Classifier, zl *zap.Logger) assistant.Starter {
	if cfg.LLMProvider == "openai" {
		return assistant.NewOpenAIStarter(assistant.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBase,
		}, b, episodes, classifier, zl)
	}
	return assistant.NewGeminiStarter(assistant.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, b, episodes, classifier, zl)
}
