package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It discards everything until InitLogger runs.
var Logger = zap.NewNop()

// RotateOptions configures the rotating log file written next to the console output.
type RotateOptions struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func InitLogger(mode string) error {
	logger, err := newConfig(mode).Build()
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

// InitLoggerWithFile behaves like InitLogger and additionally tees JSON entries to a
// lumberjack rotated file when opts.File is set.
func InitLoggerWithFile(mode string, opts RotateOptions) error {
	if opts.File == "" {
		return InitLogger(mode)
	}

	config := newConfig(mode)
	console, err := config.Build()
	if err != nil {
		return err
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
		Compress:   true,
	})
	fileEncoder := zap.NewProductionEncoderConfig()
	fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), writer, config.Level)

	Logger = console.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
	return nil
}

func newConfig(mode string) zap.Config {
	if mode == "release" {
		return zap.NewProductionConfig()
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
