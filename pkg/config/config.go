package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "seedsmart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage backend selectors.
const (
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Market  MarketConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SEEDSMART_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SEEDSMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SEEDSMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"SEEDSMART_API_BASE_URL" default:"https://seedsmart-px0a.onrender.com"`
	Timeout time.Duration `envconfig:"SEEDSMART_API_TIMEOUT" default:"30s"`
}

func (a APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must be http or https, got %q", a.BaseURL)
	}
	return nil
}

type StorageConfig struct {
	Backend  string `envconfig:"SEEDSMART_STORAGE_BACKEND" default:"file"`
	FilePath string `envconfig:"SEEDSMART_STORAGE_FILE_PATH" default:".seedsmart/state.json"`
}

var validStorageBackends = map[string]struct{}{
	StorageBackendFile:   {},
	StorageBackendRedis:  {},
	StorageBackendMemory: {},
}

func (s StorageConfig) validate() error {
	if _, ok := validStorageBackends[s.Backend]; !ok {
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
	if s.Backend == StorageBackendFile && strings.TrimSpace(s.FilePath) == "" {
		return fmt.Errorf("storage file path is required for the file backend")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SEEDSMART_REDIS_URL"`
	Address      string        `envconfig:"SEEDSMART_REDIS_ADDR"`
	Password     string        `envconfig:"SEEDSMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SEEDSMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SEEDSMART_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"SEEDSMART_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"SEEDSMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SEEDSMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SEEDSMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// MarketConfig carries the browse/checkout behavior knobs. Defaults match
// the production web client.
type MarketConfig struct {
	PageSize       int           `envconfig:"SEEDSMART_MARKET_PAGE_SIZE" default:"12"`
	SearchDebounce time.Duration `envconfig:"SEEDSMART_MARKET_SEARCH_DEBOUNCE" default:"300ms"`
	DeliveryFee    float64       `envconfig:"SEEDSMART_MARKET_DELIVERY_FEE" default:"50"`
	RedirectDelay  time.Duration `envconfig:"SEEDSMART_MARKET_REDIRECT_DELAY" default:"2s"`
}
