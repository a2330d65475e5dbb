package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"grokimg/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Grok   GrokConfig
	Fetch  FetchConfig
	Cache  CacheConfig
	Redis  RedisConfig
	S3     S3Config
	DB     DBConfig
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// GrokConfig holds the upstream Grok endpoint and protocol header settings.
type GrokConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	StatsigID      string        `mapstructure:"statsig_id"`
	DynamicStatsig bool          `mapstructure:"dynamic_statsig"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// FetchConfig bounds remote image downloads.
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// CacheConfig selects and tunes the local image cache.
type CacheConfig struct {
	Backend    domain.CacheBackend `mapstructure:"backend"`
	TTL        time.Duration       `mapstructure:"ttl"`
	MemorySize int                 `mapstructure:"memory_size"`
	KeyPrefix  string              `mapstructure:"key_prefix"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the GROKIMG_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GROKIMG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Grok defaults
	v.SetDefault("grok.base_url", "https://grok.com")
	v.SetDefault("grok.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36")
	v.SetDefault("grok.statsig_id", "")
	v.SetDefault("grok.dynamic_statsig", true)
	v.SetDefault("grok.request_timeout", "60s")

	// Fetch defaults
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_bytes", 20*1024*1024)

	// Cache defaults
	v.SetDefault("cache.backend", string(domain.CacheBackendMemory))
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.memory_size", 512)
	v.SetDefault("cache.key_prefix", "")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "grokimg-cache")
	v.SetDefault("s3.endpoint", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "grokimg")
	v.SetDefault("db.password", "grokimg_secret")
	v.SetDefault("db.name", "grokimg_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "GROKIMG_SERVER_PORT",
		"server.read_timeout":  "GROKIMG_SERVER_READ_TIMEOUT",
		"server.write_timeout": "GROKIMG_SERVER_WRITE_TIMEOUT",
		"server.environment":   "GROKIMG_SERVER_ENVIRONMENT",
		"grok.base_url":        "GROKIMG_GROK_BASE_URL",
		"grok.user_agent":      "GROKIMG_GROK_USER_AGENT",
		"grok.statsig_id":      "GROKIMG_GROK_STATSIG_ID",
		"grok.dynamic_statsig": "GROKIMG_GROK_DYNAMIC_STATSIG",
		"grok.request_timeout": "GROKIMG_GROK_REQUEST_TIMEOUT",
		"fetch.timeout":        "GROKIMG_FETCH_TIMEOUT",
		"fetch.max_bytes":      "GROKIMG_FETCH_MAX_BYTES",
		"cache.backend":        "GROKIMG_CACHE_BACKEND",
		"cache.ttl":            "GROKIMG_CACHE_TTL",
		"cache.memory_size":    "GROKIMG_CACHE_MEMORY_SIZE",
		"cache.key_prefix":     "GROKIMG_CACHE_KEY_PREFIX",
		"redis.addr":           "GROKIMG_REDIS_ADDR",
		"redis.password":       "GROKIMG_REDIS_PASSWORD",
		"redis.db":             "GROKIMG_REDIS_DB",
		"s3.region":            "GROKIMG_S3_REGION",
		"s3.bucket":            "GROKIMG_S3_BUCKET",
		"s3.endpoint":          "GROKIMG_S3_ENDPOINT",
		"s3.access_key":        "GROKIMG_S3_ACCESS_KEY",
		"s3.secret_key":        "GROKIMG_S3_SECRET_KEY",
		"db.host":              "GROKIMG_DB_HOST",
		"db.port":              "GROKIMG_DB_PORT",
		"db.user":              "GROKIMG_DB_USER",
		"db.password":          "GROKIMG_DB_PASSWORD",
		"db.name":              "GROKIMG_DB_NAME",
		"db.sslmode":           "GROKIMG_DB_SSLMODE",
		"db.max_open":          "GROKIMG_DB_MAX_OPEN",
		"db.max_idle":          "GROKIMG_DB_MAX_IDLE",
		"log.level":            "GROKIMG_LOG_LEVEL",
		"log.format":           "GROKIMG_LOG_FORMAT",
		"cors.allowed_origins": "GROKIMG_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GROKIMG_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GROKIMG_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Grok = GrokConfig{
		BaseURL:        strings.TrimRight(v.GetString("grok.base_url"), "/"),
		UserAgent:      v.GetString("grok.user_agent"),
		StatsigID:      v.GetString("grok.statsig_id"),
		DynamicStatsig: v.GetBool("grok.dynamic_statsig"),
		RequestTimeout: v.GetDuration("grok.request_timeout"),
	}
	cfg.Fetch = FetchConfig{
		Timeout:  v.GetDuration("fetch.timeout"),
		MaxBytes: v.GetInt64("fetch.max_bytes"),
	}
	cfg.Cache = CacheConfig{
		Backend:    domain.CacheBackend(strings.ToLower(v.GetString("cache.backend"))),
		TTL:        v.GetDuration("cache.ttl"),
		MemorySize: v.GetInt("cache.memory_size"),
		KeyPrefix:  v.GetString("cache.key_prefix"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case domain.CacheBackendNone, domain.CacheBackendMemory, domain.CacheBackendRedis,
		domain.CacheBackendS3, domain.CacheBackendPostgres:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Grok.BaseURL == "" {
		return fmt.Errorf("grok base url must not be empty")
	}
	return nil
}
