package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/handler"
	"tradejournal/internal/ledger"
	"tradejournal/internal/logger"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"
	"tradejournal/internal/storage"
)

func main() {
	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	book := &ledger.Ledger{Repo: store}
	uploads, err := storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Fatal("upload dir unavailable", zap.Error(err))
	}

	tokens := auth.TokenManager{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	}
	authSvc := &auth.Service{Repo: store, Tokens: tokens, Logger: logger}
	accountSvc := &service.AccountService{Repo: store}
	depositSvc := &service.DepositService{Repo: store, Ledger: book}
	tradeSvc := &service.TradeService{Repo: store, Ledger: book, Logger: logger}
	goalSvc := &service.GoalService{Repo: store}
	analyticsSvc := &service.AnalyticsService{
		Repo:            store,
		Logger:          logger,
		SnapshotEnabled: cfg.Analytics.SnapshotEnabled,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(auth.Middleware(cfg.Auth, tokens, store))

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{Auth: authSvc}
	authHandler.Register(engine)
	accountHandler := &handler.AccountHandler{Repo: store, Accounts: accountSvc}
	accountHandler.Register(engine)
	depositHandler := &handler.DepositHandler{Repo: store, Deposits: depositSvc}
	depositHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Repo: store, Trades: tradeSvc, Uploads: uploads, Logger: logger}
	tradeHandler.Register(engine)
	detailHandler := &handler.TradeDetailHandler{Repo: store}
	detailHandler.Register(engine)
	screenshotHandler := &handler.ScreenshotHandler{Repo: store, Uploads: uploads, Logger: logger}
	screenshotHandler.Register(engine)
	goalHandler := &handler.GoalHandler{Repo: store, Goals: goalSvc}
	goalHandler.Register(engine)
	analysisHandler := &handler.AnalysisHandler{Analytics: analyticsSvc}
	analysisHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled && cfg.Analytics.SnapshotEnabled {
		cronRunner := cronrunner.New(logger, ctx)
		snapshotJob := &service.SnapshotJob{Analytics: analyticsSvc, Logger: logger}
		if _, err := cronRunner.Add("analytics_snapshot", cfg.Cron.AnalyticsSnapshot, snapshotJob.Run); err != nil {
			logger.Warn("cron register analytics snapshot failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
