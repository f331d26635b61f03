package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr       string `default:"0.0.0.0:8080" usage:"API server listen address"`
	CatalogURL string `default:"https://api.escuelajs.co/api/v1/products" usage:"Upstream catalog endpoint" flag:"catalog-url"`

	FetchLimit   int           `default:"100" usage:"Products requested from the upstream catalog" flag:"fetch-limit"`
	FetchTimeout time.Duration `default:"8s"  usage:"Upstream catalog request timeout" flag:"fetch-timeout"`
	CacheTTL     time.Duration `default:"5m"  usage:"Catalog cache freshness window" flag:"cache-ttl"`

	PageSize       int           `default:"20"    usage:"Products per catalog page" flag:"page-size"`
	SearchDebounce time.Duration `default:"300ms" usage:"Quiet period before a search term is applied" flag:"search-debounce"`

	StatePath    string `default:"storefront.db" usage:"SQLite file for cart and wishlist state" flag:"state-path"`
	SnapshotPath string `default:""              usage:"Gzip catalog snapshot for warm starts (empty disables)" flag:"snapshot-path"`

	Notifications bool `default:"true" usage:"Record in-app notifications"`

	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.PageSize < 1 {
		return nil, errors.New("page size must be at least 1")
	}
	if cfg.FetchLimit < 1 {
		return nil, errors.New("fetch limit must be at least 1")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) onto the STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
