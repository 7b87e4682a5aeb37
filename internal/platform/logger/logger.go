package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines the configuration for the logger.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, console
	EnableColor bool   // true to enable colors (only in console mode)
	// OutputPath overrides stdout; the interactive client points it at a file.
	OutputPath string
}

var (
	globalLogger *zap.Logger
	atom         zap.AtomicLevel
	once         sync.Once
)

// DefaultConfig returns a sane default configuration based on environment variables.
func DefaultConfig() Config {
	return Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "console"), // options: json, console
		EnableColor: shouldEnableColor(),
	}
}

// Initialize sets up the global logger using the provided configuration.
func Initialize(cfg Config) {
	once.Do(func() {
		globalLogger, atom = build(cfg)
	})
}

// New builds a standalone logger without touching the global one.
func New(cfg Config) *zap.Logger {
	l, _ := build(cfg)
	return l
}

func build(cfg Config) (*zap.Logger, zap.AtomicLevel) {
	encoderConfig := zap.NewProductionEncoderConfig()

	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := cfg.Format
	if encoding != "json" {
		encoding = "console"
	}

	if encoding == "console" && cfg.EnableColor && cfg.OutputPath == "" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = registerColorEncoder()
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if cfg.Format != "json" {
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	}

	output := []string{"stdout"}
	errOutput := []string{"stderr"}
	if cfg.OutputPath != "" {
		output = []string{cfg.OutputPath}
		errOutput = []string{cfg.OutputPath}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:       false,
		Sampling:          nil,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       output,
		ErrorOutputPaths:  errOutput,
		DisableStacktrace: cfg.Level != "debug" && cfg.Level != "error",
	}

	l, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return l, zapConfig.Level
}

// Get returns the global logger. Initializes with defaults if not already set.
func Get() *zap.Logger {
	if globalLogger == nil {
		Initialize(DefaultConfig())
	}
	return globalLogger
}

// With creates a child logger and adds structured context to it.
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(lvl string) {
	Get()
	atom.SetLevel(parseLevel(lvl))
}

// --- Wrapper Functions ---

func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// --- Helpers ---

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.ToLower(value)
	}
	return fallback
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// shouldEnableColor checks NO_COLOR (standard) and LOG_COLOR
func shouldEnableColor() bool {
	// 1. Check strict NO_COLOR standard (https://no-color.org/)
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	// 2. Allow explicit force enable/disable via LOG_COLOR
	if val := os.Getenv("LOG_COLOR"); val != "" {
		return val == "true" || val == "1"
	}
	return true
}
