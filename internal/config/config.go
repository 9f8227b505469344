// Package config defines the top-level configuration for halobot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by HALOBOT_* environment
// variables.
type Config struct {
	Wallet    WalletConfig    `toml:"wallet"`
	Chain     ChainConfig     `toml:"chain"`
	Contracts ContractsConfig `toml:"contracts"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Monitor   MonitorConfig   `toml:"monitor"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// WalletConfig holds the agent's signing credentials. Either a raw private
// key or an encrypted key file may be supplied; serve mode can run without
// either (read-only).
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// ChainConfig holds JSON-RPC endpoint parameters.
type ChainConfig struct {
	RPCURL  string `toml:"rpc_url"`
	ChainID int64  `toml:"chain_id"`
}

// ContractsConfig holds the addresses of the external contracts and the
// supported asset list. A zero registry address means the identity registry
// is not deployed on this network and borrowing stays ungated.
type ContractsConfig struct {
	LendingPool string        `toml:"lending_pool"`
	Registry    string        `toml:"registry"`
	Assets      []AssetConfig `toml:"assets"`
}

// AssetConfig describes one supported token.
type AssetConfig struct {
	Symbol               string  `toml:"symbol"`
	Address              string  `toml:"address"`
	Decimals             int32   `toml:"decimals"`
	LTV                  float64 `toml:"ltv"`
	LiquidationThreshold float64 `toml:"liquidation_threshold"`
	// Stable marks the protocol's settlement asset (borrow/repay currency).
	Stable bool `toml:"stable"`
}

// RedisConfig holds Redis connection parameters. An empty Addr disables
// Redis; caches fall back to in-process implementations.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds the HTTP/WebSocket API parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	APIKey      string   `toml:"api_key"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials and the event filter.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// MonitorConfig holds the monitor-mode parameters: refresh cadence, the
// health-factor alert threshold, and the borrower watch list scanned for
// liquidation opportunities.
type MonitorConfig struct {
	Interval             duration `toml:"interval"`
	HealthAlertThreshold float64  `toml:"health_alert_threshold"`
	Borrowers            []string `toml:"borrowers"`
}

// duration wraps time.Duration so it can be decoded from TOML strings like
// "30s" or "2m".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the built-in configuration defaults. Contract addresses
// default to the Halo deployment on Base.
func Defaults() Config {
	return Config{
		Chain: ChainConfig{
			RPCURL:  "https://mainnet.base.org",
			ChainID: 8453,
		},
		Contracts: ContractsConfig{
			LendingPool: "0x9b98511c7fb7d9a0541dfBc0b3d8Ef4CC25341ad",
			Registry:    "0x0000000000000000000000000000000000000000",
			Assets: []AssetConfig{
				{
					Symbol:               "USDC",
					Address:              "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
					Decimals:             6,
					LTV:                  80,
					LiquidationThreshold: 85,
					Stable:               true,
				},
				{
					Symbol:               "WETH",
					Address:              "0x4200000000000000000000000000000000000006",
					Decimals:             18,
					LTV:                  75,
					LiquidationThreshold: 80,
				},
			},
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Monitor: MonitorConfig{
			Interval:             duration{30 * time.Second},
			HealthAlertThreshold: 1.1,
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"serve":   true,
	"monitor": true,
	"full":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for internal consistency. All problems
// are collected and reported together.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, monitor, full)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Chain.RPCURL == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	if c.Chain.ChainID <= 0 {
		errs = append(errs, "chain: chain_id must be positive")
	}

	if c.Contracts.LendingPool == "" {
		errs = append(errs, "contracts: lending_pool must not be empty")
	}
	if len(c.Contracts.Assets) == 0 {
		errs = append(errs, "contracts: at least one asset must be configured")
	}
	stables := 0
	for i, a := range c.Contracts.Assets {
		if a.Symbol == "" {
			errs = append(errs, fmt.Sprintf("contracts: assets[%d]: symbol must not be empty", i))
		}
		if a.Address == "" {
			errs = append(errs, fmt.Sprintf("contracts: assets[%d]: address must not be empty", i))
		}
		if a.Decimals < 0 || a.Decimals > 36 {
			errs = append(errs, fmt.Sprintf("contracts: assets[%d]: decimals %d out of range", i, a.Decimals))
		}
		if a.Stable {
			stables++
		}
	}
	if len(c.Contracts.Assets) > 0 && stables != 1 {
		errs = append(errs, fmt.Sprintf("contracts: exactly one asset must be marked stable, got %d", stables))
	}

	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}

	if c.Monitor.Interval.Duration <= 0 {
		errs = append(errs, "monitor: interval must be positive")
	}
	if c.Monitor.HealthAlertThreshold < 1 {
		errs = append(errs, "monitor: health_alert_threshold must be at least 1.0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StableAsset returns the asset marked stable. Validate guarantees exactly
// one exists.
func (c *Config) StableAsset() AssetConfig {
	for _, a := range c.Contracts.Assets {
		if a.Stable {
			return a
		}
	}
	return AssetConfig{}
}
