// Command risk-scan runs one risk monitor pass over a single tenant or every active tenant.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	"github.com/noah-isme/sma-exam-workflow-api/internal/service"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/cache"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/config"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/database"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/logger"
)

func main() {
	var (
		tenantID string
		timeout  time.Duration
		pretty   bool
	)
	flag.StringVar(&tenantID, "tenant", "", "Evaluate only this tenant (default: all active tenants)")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Overall deadline for the run")
	flag.BoolVar(&pretty, "pretty", false, "Indent the JSON report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var cacheSvc *service.CacheService
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, summaries will not be invalidated", zap.Error(err))
	} else if client != nil {
		cacheRepo := repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, nil, cfg.Risk.SummaryCacheTTL, logr, true)
	}

	monitor := service.NewRiskMonitor(
		repository.NewTestRepository(db),
		repository.NewChapterRepository(db),
		repository.NewRiskAlertRepository(db),
		repository.NewTenantRepository(db),
		service.RiskRules{
			ApprovalSLA:   cfg.Risk.ApprovalSLA,
			ReviewSLA:     cfg.Risk.ReviewSLA,
			PrintLeadTime: cfg.Risk.PrintLeadTime,
		},
		logr.Named("risk"),
		service.WithRiskCache(cacheSvc),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var results []dto.RiskEvaluationResult
	if tenantID != "" {
		result, evalErr := monitor.Evaluate(ctx, tenantID, service.RiskTriggerCLI)
		if result != nil {
			results = append(results, *result)
		}
		err = evalErr
	} else {
		results, err = monitor.EvaluateAll(ctx, service.RiskTriggerCLI)
	}

	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if encErr := encoder.Encode(results); encErr != nil {
		logr.Error("failed to write report", zap.Error(encErr))
	}
	if err != nil {
		logr.Error("risk scan finished with errors", zap.Error(err))
		os.Exit(1)
	}
}
