package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nulzo/image-playground/pkg/api"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Catalog    []api.Model      `mapstructure:"catalog"`
	Client     ClientConfig     `mapstructure:"client"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives log output for the interactive client, which owns the terminal.
	File string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type CloudflareConfig struct {
	AccountID string        `mapstructure:"account_id"`
	APIToken  string        `mapstructure:"api_token"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Driver string       `mapstructure:"driver"` // sqlite, r2
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	R2     R2Config     `mapstructure:"r2"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type R2Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type CacheConfig struct {
	SchemaTTL time.Duration `mapstructure:"schema_ttl"`
}

type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// GenerationTimeout bounds a generation request; zero waits indefinitely.
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	RevealDelay       time.Duration `mapstructure:"reveal_delay"`
	DownloadDir       string        `mapstructure:"download_dir"`
}

// defaultCatalog mirrors the text-to-image models Workers AI exposes.
var defaultCatalog = []map[string]string{
	{"id": "@cf/black-forest-labs/flux-1-schnell", "name": "FLUX.1 [schnell]"},
	{"id": "@cf/stabilityai/stable-diffusion-xl-base-1.0", "name": "Stable Diffusion XL Base 1.0"},
	{"id": "@cf/bytedance/stable-diffusion-xl-lightning", "name": "Stable Diffusion XL Lightning"},
	{"id": "@cf/lykon/dreamshaper-8-lcm", "name": "DreamShaper 8 LCM"},
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "playground.log")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "image-playground")
	v.SetDefault("cloudflare.base_url", "https://api.cloudflare.com/client/v4")
	v.SetDefault("cloudflare.timeout", 2*time.Minute)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite.path", "playground.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cache.schema_ttl", time.Hour)
	v.SetDefault("catalog", defaultCatalog)
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.generation_timeout", 0)
	v.SetDefault("client.reveal_delay", 50*time.Millisecond)
	v.SetDefault("client.download_dir", ".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.Cloudflare.APIToken = resolveSecret(v, cfg.Cloudflare.APIToken)
	cfg.Cloudflare.AccountID = resolveSecret(v, cfg.Cloudflare.AccountID)
	cfg.Storage.R2.AccessKeyID = resolveSecret(v, cfg.Storage.R2.AccessKeyID)
	cfg.Storage.R2.SecretAccessKey = resolveSecret(v, cfg.Storage.R2.SecretAccessKey)
	cfg.Redis.Password = resolveSecret(v, cfg.Redis.Password)

	return &cfg, nil
}

// resolveSecret expands the "ENV:NAME" indirection used for credentials in
// config files.
func resolveSecret(v *viper.Viper, value string) string {
	envVar, ok := strings.CutPrefix(value, "ENV:")
	if !ok {
		return value
	}
	// Check process environment first (explicit override)
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return v.GetString(envVar)
}
