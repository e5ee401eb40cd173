package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. OUTFITRON_REDIS_ADDR.
const EnvPrefix = "OUTFITRON"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Vision   VisionConfig   `mapstructure:"vision"`
	Report   ReportConfig   `mapstructure:"report"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	Mode         string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size" validate:"gt=0"`
	UploadDir    string   `mapstructure:"upload_dir"`
	AllowedTypes []string `mapstructure:"allowed_types" validate:"min=1"`
}

type AnalysisConfig struct {
	MaxConcurrent    int  `mapstructure:"max_concurrent" validate:"gte=1"`
	QueueTimeout     int  `mapstructure:"queue_timeout" validate:"gte=1"`
	CleanupTempFiles bool `mapstructure:"cleanup_temp_files"`
	// RateLimit is requests per second per client IP on the analyze route; 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

// VisionConfig locates the OpenCV models and tunes the image pipeline.
type VisionConfig struct {
	CascadePath    string  `mapstructure:"cascade_path"`
	YuNetModel     string  `mapstructure:"yunet_model"`
	PoseProto      string  `mapstructure:"pose_proto"`
	PoseModel      string  `mapstructure:"pose_model"`
	PoseInputSize  int     `mapstructure:"pose_input_size" validate:"gte=32"`
	PoseThreshold  float64 `mapstructure:"pose_threshold" validate:"gte=0,lte=1"`
	FacePadding    float64 `mapstructure:"face_padding" validate:"gte=0"`
	KMeansAttempts int     `mapstructure:"kmeans_attempts" validate:"gte=1"`
	DebugFacePath  string  `mapstructure:"debug_face_path"`
}

type ReportConfig struct {
	OutputPath string `mapstructure:"output_path" validate:"required"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret" validate:"required_if=Enabled true"`
	Audience  string `mapstructure:"audience"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// Load reads a YAML file, applies defaults and OUTFITRON_* environment overrides.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// New loads config.yaml, falling back to defaults plus environment when it is absent.
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		cfg, err = decode(newViper())
		if err != nil {
			return getDefaultConfig()
		}
	}
	return cfg
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := getDefaultConfig()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.upload_dir", d.Upload.UploadDir)
	v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)

	v.SetDefault("analysis.max_concurrent", d.Analysis.MaxConcurrent)
	v.SetDefault("analysis.queue_timeout", d.Analysis.QueueTimeout)
	v.SetDefault("analysis.cleanup_temp_files", d.Analysis.CleanupTempFiles)
	v.SetDefault("analysis.rate_limit", d.Analysis.RateLimit)
	v.SetDefault("analysis.rate_burst", d.Analysis.RateBurst)

	v.SetDefault("vision.cascade_path", d.Vision.CascadePath)
	v.SetDefault("vision.yunet_model", d.Vision.YuNetModel)
	v.SetDefault("vision.pose_proto", d.Vision.PoseProto)
	v.SetDefault("vision.pose_model", d.Vision.PoseModel)
	v.SetDefault("vision.pose_input_size", d.Vision.PoseInputSize)
	v.SetDefault("vision.pose_threshold", d.Vision.PoseThreshold)
	v.SetDefault("vision.face_padding", d.Vision.FacePadding)
	v.SetDefault("vision.kmeans_attempts", d.Vision.KMeansAttempts)
	v.SetDefault("vision.debug_face_path", d.Vision.DebugFacePath)

	v.SetDefault("report.output_path", d.Report.OutputPath)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.audience", d.Auth.Audience)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			UploadDir:    "./uploads",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg"},
		},
		Analysis: AnalysisConfig{
			MaxConcurrent:    3,
			QueueTimeout:     30,
			CleanupTempFiles: true,
			RateLimit:        2,
			RateBurst:        5,
		},
		Vision: VisionConfig{
			CascadePath:    "",
			PoseProto:      "models/pose/body_25/pose_deploy.prototxt",
			PoseModel:      "models/pose/body_25/pose_iter_584000.caffemodel",
			PoseInputSize:  368,
			PoseThreshold:  0.1,
			FacePadding:    0.3,
			KMeansAttempts: 1,
		},
		Report: ReportConfig{
			OutputPath: "style_analysis_report.jpg",
		},
		Log: LogConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}
