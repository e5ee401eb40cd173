package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/handler"
	"github.com/Devayan28/Outfitron/middleware"
	"github.com/Devayan28/Outfitron/service"
	"github.com/Devayan28/Outfitron/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLoggerWithFile(cfg.Server.Mode, utils.RotateOptions{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting Outfitron server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	if err := os.MkdirAll(cfg.Upload.UploadDir, 0755); err != nil {
		utils.Logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	redisService := service.NewRedisService(&cfg.Redis)
	ctx := context.Background()
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer redisService.Close()

	faces, poses, err := service.NewDetectors(&cfg.Vision)
	if err != nil {
		utils.Logger.Fatal("failed to load detectors", zap.Error(err))
	}
	metrics := service.NewMetrics()
	analyzer := service.NewAnalyzer(faces, poses, &cfg.Analysis, &cfg.Vision,
		service.WithLogger(utils.Logger),
		service.WithMetrics(metrics))
	defer analyzer.Close()

	analyzeHandler := handler.NewAnalyzeHandler(cfg, redisService, analyzer, metrics)

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"build_id":   BuildID,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	r.GET("/metrics", analyzeHandler.Metrics)

	api := r.Group("/api/v1")
	if cfg.Auth.Enabled {
		api.Use(middleware.JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Audience))
	}
	{
		api.POST("/analyze", middleware.RateLimit(cfg.Analysis.RateLimit, cfg.Analysis.RateBurst), analyzeHandler.Analyze)
		api.GET("/analysis/:key", analyzeHandler.GetByKey)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}
