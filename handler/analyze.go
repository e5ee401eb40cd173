package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/middleware"
	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/service"
	"github.com/Devayan28/Outfitron/utils"
)

// Form fields of the analyze request.
const (
	FieldSelfie   = "selfie"
	FieldFullBody = "fullbody"
)

// Analyzer runs one analysis of a selfie/full-body pair.
type Analyzer interface {
	Analyze(ctx context.Context, selfie, fullBody []byte) (*model.AnalysisResult, error)
}

// ResultCache stores results by image-pair key. A nil result means a miss.
type ResultCache interface {
	GetAnalysis(ctx context.Context, key string) (*model.AnalysisResult, error)
	SetAnalysis(ctx context.Context, key string, result *model.AnalysisResult) error
}

type AnalyzeHandler struct {
	cfg      *config.Config
	cache    ResultCache
	analyzer Analyzer
	metrics  *service.Metrics
}

func NewAnalyzeHandler(cfg *config.Config, cache ResultCache, analyzer Analyzer, metrics *service.Metrics) *AnalyzeHandler {
	return &AnalyzeHandler{
		cfg:      cfg,
		cache:    cache,
		analyzer: analyzer,
		metrics:  metrics,
	}
}

// Analyze accepts a multipart form with a selfie and a full-body photo and
// returns the styling report. Results are cached by the pair of image hashes.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	selfie, err := h.readUpload(c, FieldSelfie)
	if err != nil {
		badRequest(c, err)
		return
	}
	fullBody, err := h.readUpload(c, FieldFullBody)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	key := utils.PairKey(selfie, fullBody)

	utils.Logger.Info("images uploaded",
		zap.String("key", key),
		zap.Int("selfie_size", len(selfie)),
		zap.Int("fullbody_size", len(fullBody)),
		zap.String("user", c.GetString(middleware.UserIDKey)))

	if h.cache != nil {
		cached, err := h.cache.GetAnalysis(ctx, key)
		if err != nil {
			utils.Logger.Warn("failed to get cache", zap.Error(err))
		}
		if cached != nil {
			utils.Logger.Info("cache hit", zap.String("key", key))
			if h.metrics != nil {
				h.metrics.RecordAnalysis(ctx, service.OutcomeCached, "", 0)
			}
			c.JSON(http.StatusOK, model.AnalyzeResponse{
				Success: true,
				Message: "analysis completed (cached)",
				Cached:  true,
				Data:    cached,
			})
			return
		}
	}

	result, err := h.analyzer.Analyze(ctx, selfie, fullBody)
	if err != nil {
		utils.Logger.Error("failed to analyze images", zap.String("key", key), zap.Error(err))
		resp := model.ErrorResponse{
			Success: false,
			Message: messageFor(err),
			Error:   err.Error(),
		}
		var ae *service.AnalysisError
		if errors.As(err, &ae) {
			resp.Stage = ae.Stage
		}
		c.JSON(statusFor(err), resp)
		return
	}
	result.Key = key

	if h.cache != nil {
		if err := h.cache.SetAnalysis(ctx, key, result); err != nil {
			utils.Logger.Warn("failed to set cache", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, model.AnalyzeResponse{
		Success: true,
		Message: "analysis completed",
		Data:    result,
	})
}

// GetByKey returns a cached analysis by its image-pair key.
func (h *AnalyzeHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "missing analysis key",
		})
		return
	}
	if h.cache == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Message: "result cache disabled",
		})
		return
	}

	result, err := h.cache.GetAnalysis(c.Request.Context(), key)
	if err != nil {
		utils.Logger.Error("failed to get analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "lookup failed",
			Error:   err.Error(),
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "analysis not found",
		})
		return
	}

	c.JSON(http.StatusOK, model.AnalyzeResponse{
		Success: true,
		Message: "analysis found",
		Cached:  true,
		Data:    result,
	})
}

// Metrics returns the local analysis counters.
func (h *AnalyzeHandler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// readUpload validates one form file and returns its bytes. The file is staged
// in the upload directory and removed afterwards when cleanup is enabled.
func (h *AnalyzeHandler) readUpload(c *gin.Context, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s image: %w", field, err)
	}

	if file.Size > h.cfg.Upload.MaxSize {
		return nil, fmt.Errorf("%s exceeds the size limit (%d MB)", field, h.cfg.Upload.MaxSize/(1024*1024))
	}
	if !h.isAllowedType(file.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("unsupported %s type, only JPEG/PNG are accepted", field)
	}

	return h.stage(c, file)
}

func (h *AnalyzeHandler) stage(c *gin.Context, file *multipart.FileHeader) ([]byte, error) {
	filename := utils.GenerateID() + filepath.Ext(file.Filename)
	savePath := filepath.Join(h.cfg.Upload.UploadDir, filename)

	if err := c.SaveUploadedFile(file, savePath); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if h.cfg.Analysis.CleanupTempFiles {
		defer func() {
			if err := os.Remove(savePath); err != nil {
				utils.Logger.Warn("failed to delete temp file",
					zap.String("file", savePath),
					zap.Error(err))
			}
		}()
	}

	return os.ReadFile(savePath)
}

func (h *AnalyzeHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, err error) {
	utils.Logger.Warn("rejected upload", zap.Error(err))
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Message: "invalid upload",
		Error:   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrUnreadableImage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoFaceDetected), errors.Is(err, service.ErrNoSkinSignal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, service.ErrQueueFull):
		return "analysis queue is full, try again later"
	case errors.Is(err, service.ErrUnreadableImage):
		return "image could not be decoded"
	case errors.Is(err, service.ErrNoFaceDetected):
		return "no face detected in selfie"
	case errors.Is(err, service.ErrNoSkinSignal):
		return "could not sample skin colour"
	default:
		return "analysis failed"
	}
}
