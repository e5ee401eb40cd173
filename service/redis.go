package service

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/utils"
)

const analysisKeyPrefix = "analysis:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisService caches analysis results by image-pair key.
type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetAnalysis returns the cached result for key, or nil on a cache miss.
func (s *RedisService) GetAnalysis(ctx context.Context, key string) (*model.AnalysisResult, error) {
	data, err := s.client.Get(ctx, analysisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		utils.Logger.Error("failed to unmarshal analysis result",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &result, nil
}

func (s *RedisService) SetAnalysis(ctx context.Context, key string, result *model.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, analysisKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
