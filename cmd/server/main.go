package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/trustchain/risk-service/internal/cache"
	"github.com/trustchain/risk-service/internal/dataset"
	"github.com/trustchain/risk-service/internal/errors"
	"github.com/trustchain/risk-service/internal/monitoring"
	"github.com/trustchain/risk-service/internal/risk"
	"github.com/trustchain/risk-service/internal/security"
	"github.com/trustchain/risk-service/internal/types"
)

const serviceName = "TrustChain Risk Service"

// app bundles the process-wide collaborators the routes close over.
type app struct {
	data     *dataset.Store
	registry *risk.Registry
	trainer  *risk.Trainer
	assessor *risk.Assessor
	metrics  *monitoring.Metrics
	cache    *cache.Cache
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	csvPath := getEnvOrDefault("DATASET_CSV", filepath.Join(dataDir, "dataset.csv"))
	port := getEnvOrDefault("PORT", "8080")
	adjustOnFallback := os.Getenv("ADJUST_ON_FALLBACK") == "true"

	data, err := dataset.NewStore(dataDir, csvPath)
	if err != nil {
		slog.Error("failed to initialize dataset store", "error", err)
		os.Exit(1)
	}
	defer data.Close()

	registry := risk.NewRegistry()
	artifacts := risk.NewArtifactStore(dataDir)
	artifacts.LoadAll(registry)

	trainer := risk.NewTrainer(registry, artifacts)
	predictor := risk.NewPredictor(registry, risk.PredictorConfig{AdjustOnFallback: adjustOnFallback})
	assessor := risk.NewAssessor(data, predictor)

	a := &app{
		data:     data,
		registry: registry,
		trainer:  trainer,
		assessor: assessor,
		metrics:  monitoring.NewMetrics(),
		cache:    cache.New(5 * time.Minute),
	}

	// Train any missing categories in the background if a dataset file is
	// already present, so a fresh deployment serves model scores instead of
	// fallbacks once training completes.
	if _, err := os.Stat(csvPath); err == nil {
		go func() {
			loaded := registry.ModelsLoaded()
			for _, ok := range loaded {
				if ok {
					return
				}
			}
			rows, err := data.All()
			if err != nil {
				slog.Warn("startup training skipped, dataset unreadable", "error", err)
				return
			}
			slog.Info("no persisted models found, training at startup", "rows", len(rows))
			trainer.TrainAll(rows)
		}()
	}

	r := newRouter(a)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("starting server", "port", port, "data_dir", dataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

// newRouter assembles the middleware chain and routes.
func newRouter(a *app) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.Middleware(a.metrics))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	sec := security.NewMiddleware(security.DefaultConfig())
	r.Use(sec.SecurityHeaders)
	r.Use(sec.RateLimitByIP)

	r.Use(a.cache.Middleware(a.metrics, "/get_bidder_stats"))

	r.GET("/health", a.handleHealth)
	r.POST("/assess_risk", a.handleAssessRisk)
	r.POST("/train_models", a.handleTrainModels)
	r.GET("/get_bidder_stats", a.handleBidderStats)
	r.GET("/metrics", a.handleMetrics)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (a *app) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "OK",
		"service":       serviceName,
		"models_loaded": a.registry.ModelsLoaded(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *app) handleAssessRisk(c *gin.Context) {
	a.metrics.IncrementAssess()

	var req types.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := errors.NewValidationError("missing required fields: bidder_address, bid_type")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	assessment, err := a.assessor.Assess(req.BidderAddress, req.BidType, req.BidAmount, req.ProjectBudget)
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	slog.Info("assessment completed",
		"bidder", assessment.BidderAddress,
		"bid_type", assessment.BidType,
		"risk_score", assessment.RiskScore,
		"risk_category", assessment.RiskCategory)

	c.JSON(http.StatusOK, assessment)
}

func (a *app) handleTrainModels(c *gin.Context) {
	a.metrics.IncrementTrain()

	rows, err := a.data.All()
	if err != nil {
		appErr := errors.NewUnavailableError("failed to load historical data", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	a.trainer.TrainAll(rows)
	a.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"message":       "Models trained successfully",
		"models_loaded": a.registry.ModelsLoaded(),
	})
}

func (a *app) handleBidderStats(c *gin.Context) {
	rows, err := a.data.All()
	if err != nil {
		appErr := errors.NewUnavailableError("failed to load historical data", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	bidders := make([]types.BidderSummary, 0, len(rows))
	for _, r := range rows {
		bidders = append(bidders, types.BidderSummary{
			BidderAddress:   r.BidderAddress,
			TotalProjects:   int(r.TotalProjects),
			CompletionRate:  r.CompletionRate,
			ReputationScore: r.ReputationScore,
			QualityScore:    r.QualityScore,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_bidders": len(bidders),
		"bidders":       bidders,
	})
}

func (a *app) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.metrics.GetStats())
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
