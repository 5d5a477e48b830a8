// Package config loads server configuration from environment variables,
// optionally overlaid with a TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/validation"
)

// Config holds all configuration for the claim portal server.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Chain     ChainConfig     `toml:"chain"`
	Signing   SigningConfig   `toml:"signing"`
	CORS      CORSConfig      `toml:"cors"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Security  SecurityConfig  `toml:"security"`
	Proxy     ProxyConfig     `toml:"proxy"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	ReadTimeout  int    `toml:"read_timeout"`  // seconds
	WriteTimeout int    `toml:"write_timeout"` // seconds
	IdleTimeout  int    `toml:"idle_timeout"`  // seconds
}

// ChainConfig holds blockchain RPC and contract settings.
type ChainConfig struct {
	RPCURL        string `toml:"rpc_url"`
	NFTContract   string `toml:"nft_contract"`
	StoreContract string `toml:"store_contract"`
}

// SigningConfig holds the signer key and claim resolution settings.
type SigningConfig struct {
	PrivateKey    string `toml:"private_key"`
	DomainName    string `toml:"domain_name"`    // override for the on-chain name()
	DomainVersion string `toml:"domain_version"` // preferred EIP-712 domain version
	TierOffset    int64  `toml:"tier_offset"`
	MinTier       int64  `toml:"min_tier"`
}

// CORSConfig holds cross-origin settings for the browser-facing endpoint.
type CORSConfig struct {
	AllowOrigin string `toml:"allow_origin"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled        bool `toml:"enabled"`
	RequestsPerMin int  `toml:"requests_per_min"`
	BurstSize      int  `toml:"burst_size"`
	CleanupMinutes int  `toml:"cleanup_minutes"`
}

// SecurityConfig holds security filter settings.
type SecurityConfig struct {
	FilterEnabled bool `toml:"filter_enabled"`
	MaxBodySizeKB int  `toml:"max_body_size_kb"`
}

// ProxyConfig holds trusted proxy settings for X-Forwarded-For handling.
type ProxyConfig struct {
	TrustProxy     bool     `toml:"trust_proxy"`
	TrustedProxies []string `toml:"trusted_proxies"` // CIDR notation
}

// Load loads configuration from environment variables. When
// CLAIM_PORTAL_CONFIG names a TOML file, values present in the file
// override the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 8080),
			Host:         getEnv("HOST", "0.0.0.0"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 120),
		},
		Chain: ChainConfig{
			RPCURL:        getEnv("RPC_URL", ""),
			NFTContract:   getEnv("NFT_CONTRACT", ""),
			StoreContract: getEnv("STORE_CONTRACT", ""),
		},
		Signing: SigningConfig{
			PrivateKey:    getEnv("SIGNER_PRIVATE_KEY", ""),
			DomainName:    getEnv("DOMAIN_NAME", ""),
			DomainVersion: getEnv("DOMAIN_VERSION", ""),
			TierOffset:    int64(getEnvInt("TIER_OFFSET", 0)),
			MinTier:       int64(getEnvInt("MIN_TIER", 1)),
		},
		CORS: CORSConfig{
			AllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: getEnvInt("RATE_LIMIT_RPM", 120),
			BurstSize:      getEnvInt("RATE_LIMIT_BURST", 20),
			CleanupMinutes: getEnvInt("RATE_LIMIT_CLEANUP_MINUTES", 10),
		},
		Security: SecurityConfig{
			FilterEnabled: getEnvBool("SECURITY_FILTER_ENABLED", true),
			MaxBodySizeKB: getEnvInt("SECURITY_MAX_BODY_SIZE_KB", 64),
		},
		Proxy: ProxyConfig{
			TrustProxy:     getEnvBool("TRUST_PROXY", false),
			TrustedProxies: getEnvStringSlice("TRUSTED_PROXIES", []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}),
		},
	}

	if path := os.Getenv("CLAIM_PORTAL_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks that every required signing setting is present and
// well-formed. The server refuses to start on error.
func (c *Config) Validate() error {
	var missing []string
	if c.Signing.PrivateKey == "" {
		missing = append(missing, "SIGNER_PRIVATE_KEY")
	}
	if c.Chain.RPCURL == "" {
		missing = append(missing, "RPC_URL")
	}
	if c.Chain.NFTContract == "" {
		missing = append(missing, "NFT_CONTRACT")
	}
	if c.Chain.StoreContract == "" {
		missing = append(missing, "STORE_CONTRACT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if err := validation.ValidateAddress(c.Chain.NFTContract); err != nil {
		return fmt.Errorf("NFT_CONTRACT: %w", err)
	}
	if err := validation.ValidateAddress(c.Chain.StoreContract); err != nil {
		return fmt.Errorf("STORE_CONTRACT: %w", err)
	}

	if c.Signing.MinTier < 1 || c.Signing.MinTier > 255 {
		return fmt.Errorf("MIN_TIER must be between 1 and 255, got %d", c.Signing.MinTier)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
