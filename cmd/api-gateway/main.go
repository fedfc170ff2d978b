package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-exam-workflow-api/api/swagger"
	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/handler"
	"github.com/noah-isme/sma-exam-workflow-api/internal/middleware"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	"github.com/noah-isme/sma-exam-workflow-api/internal/service"
	"github.com/noah-isme/sma-exam-workflow-api/internal/workflow"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/cache"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/config"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/database"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/export"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/jobs"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-exam-workflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-exam-workflow-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/scheduler"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/storage"
)

// @title SMA Exam Workflow API
// @version 1.0.0
// @description Multi-tenant examination paper, chapter, makeup and risk alert workflow engine.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache and scan lock", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	testRepo := repository.NewTestRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	makeupRepo := repository.NewMakeupRepository(db)
	riskRepo := repository.NewRiskAlertRepository(db)
	blueprintRepo := repository.NewBlueprintRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Risk.SummaryCacheTTL, logr, redisClient != nil)
	identitySvc := service.NewIdentityService(service.IdentityConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	monitor := service.NewRiskMonitor(testRepo, chapterRepo, riskRepo, tenantRepo, service.RiskRules{
		ApprovalSLA:   cfg.Risk.ApprovalSLA,
		ReviewSLA:     cfg.Risk.ReviewSLA,
		PrintLeadTime: cfg.Risk.PrintLeadTime,
	}, logr.Named("risk"), service.WithRiskCache(cacheSvc), service.WithRiskMetrics(metricsSvc))

	riskQueue := jobs.NewQueue("risk-evaluations", monitor.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Risk.QueueWorkers,
		MaxRetries: cfg.Risk.QueueRetries,
		Logger:     logr.Named("jobs"),
		OnDepth:    metricsSvc.SetQueueDepth,
	})
	monitor.AttachQueue(riskQueue)
	riskQueue.Start(ctx)
	defer riskQueue.Stop()

	testSvc := service.NewTestService(testRepo, blueprintRepo, auditRepo, validate, logr,
		service.WithTestRiskTrigger(monitor), service.WithTestMetrics(metricsSvc))
	chapterSvc := service.NewChapterService(chapterRepo, auditRepo, validate, logr,
		service.WithChapterRiskTrigger(monitor), service.WithChapterMetrics(metricsSvc))
	makeupSvc := service.NewMakeupService(makeupRepo, testRepo, auditRepo, metricsSvc, validate, logr)
	riskAlertSvc := service.NewRiskAlertService(riskRepo, auditRepo, cacheSvc, cfg.Risk.SummaryCacheTTL, validate, logr)

	var printPackHandler *handler.PrintPackHandler
	var printStore *storage.LocalStorage
	if cfg.PrintPacks.Enabled {
		printStore, err = storage.NewLocalStorage(cfg.PrintPacks.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare print pack storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.PrintPacks.SignedURLSecret, cfg.PrintPacks.SignedURLTTL)
		printPackSvc := service.NewPrintPackService(testRepo, blueprintRepo, export.NewPDFExporter(), printStore, signer,
			cfg.APIPrefix+"/print-packs/download", logr)
		printPackHandler = handler.NewPrintPackHandler(printPackSvc)
	}

	sched := scheduler.New(cacheRepo, logr.Named("scheduler"))
	if cfg.Risk.ScanEnabled {
		if err := sched.Add(scheduler.Task{
			Name:    "risk-scan",
			Spec:    cfg.Risk.ScanSchedule,
			Timeout: 10 * time.Minute,
			LockTTL: cfg.Risk.LockTTL,
			Run: func(ctx context.Context) error {
				_, err := monitor.EvaluateAll(ctx, service.RiskTriggerSchedule)
				return err
			},
		}); err != nil {
			logr.Fatal("failed to schedule risk scan", zap.Error(err))
		}
	}
	if printStore != nil && cfg.PrintPacks.CleanupSchedule != "" {
		if err := sched.Add(scheduler.Task{
			Name:    "print-pack-cleanup",
			Spec:    cfg.PrintPacks.CleanupSchedule,
			LockTTL: cfg.Risk.LockTTL,
			Run: func(context.Context) error {
				removed, err := printStore.CleanupOlderThan(cfg.PrintPacks.Retention)
				if len(removed) > 0 {
					logr.Info("print packs removed", zap.Int("count", len(removed)))
				}
				return err
			},
		}); err != nil {
			logr.Fatal("failed to schedule print pack cleanup", zap.Error(err))
		}
	}
	sched.Start()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if printPackHandler != nil {
		api.GET("/print-packs/download",
			middleware.Audit(auditRepo, logr, models.AuditActionPrintPackDownload, "print_pack"),
			printPackHandler.Download)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(identitySvc))
	secured.Use(middleware.WithResponseMeta())

	testHandler := handler.NewTestHandler(testSvc)
	secured.POST("/tests", middleware.Permit(access.ActionTestCreate), testHandler.Create)
	secured.GET("/tests", middleware.Permit(access.ActionTestView), testHandler.List)
	secured.GET("/tests/:id", middleware.Permit(access.ActionTestView), testHandler.Get)
	secured.PATCH("/tests/:id", middleware.Permit(access.ActionTestUpdate), testHandler.Update)
	for segment, action := range handler.TestRoutes {
		secured.POST("/tests/:id/"+segment, testHandler.Transition(action))
	}
	if printPackHandler != nil {
		secured.POST("/tests/:id/print-pack", middleware.Permit(access.ActionTestPrintPack), printPackHandler.Generate)
	}

	chapterHandler := handler.NewChapterHandler(chapterSvc)
	secured.POST("/chapters", middleware.Permit(access.ActionChapterCreate), chapterHandler.Create)
	secured.GET("/chapters", middleware.Permit(access.ActionChapterView), chapterHandler.List)
	secured.GET("/chapters/:id", middleware.Permit(access.ActionChapterView), chapterHandler.Get)
	secured.POST("/chapters/:id/unlock", middleware.Permit(access.ActionChapterUnlock), chapterHandler.Unlock)
	secured.POST("/chapters/:id/lock", middleware.Permit(access.ActionChapterLock), chapterHandler.Lock)
	secured.POST("/chapters/:id/complete", middleware.Permit(access.ActionChapterComplete), chapterHandler.Complete)
	secured.POST("/chapters/:id/deadline", middleware.Permit(access.ActionChapterSetDeadline), chapterHandler.SetDeadline)
	secured.POST("/chapters/:id/reveal", middleware.Permit(access.ActionChapterReveal), chapterHandler.RevealScores)
	secured.POST("/chapters/:id/portions", middleware.Permit(access.ActionChapterUpdatePortions), chapterHandler.UpdatePortions)

	makeupHandler := handler.NewMakeupHandler(makeupSvc)
	secured.POST("/makeup-tests", middleware.Permit(access.ActionMakeupSchedule), makeupHandler.Schedule)
	secured.GET("/tests/:id/makeup-tests", middleware.Permit(access.ActionMakeupView), makeupHandler.ListByTest)
	secured.POST("/makeup-tests/:id/start", makeupHandler.Transition(workflow.MakeupStart))
	secured.POST("/makeup-tests/:id/complete", makeupHandler.Transition(workflow.MakeupComplete))
	secured.POST("/makeup-tests/:id/cancel", makeupHandler.Transition(workflow.MakeupCancel))

	riskHandler := handler.NewRiskAlertHandler(riskAlertSvc, monitor)
	secured.GET("/risk-alerts", middleware.Permit(access.ActionRiskAlertView), riskHandler.List)
	secured.GET("/risk-alerts/summary", middleware.Permit(access.ActionRiskAlertView), riskHandler.Summary)
	secured.GET("/risk-alerts/export", middleware.Permit(access.ActionRiskAlertExport), riskHandler.Export)
	secured.PATCH("/risk-alerts/:id/acknowledge", middleware.Permit(access.ActionRiskAlertAcknowledge), riskHandler.Acknowledge)
	secured.POST("/risk-alerts/evaluate", middleware.Permit(access.ActionRiskAlertEvaluate), riskHandler.Evaluate)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
}
