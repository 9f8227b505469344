package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies HALOBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known HALOBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "HALOBOT_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.EncryptedKeyPath, "HALOBOT_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "HALOBOT_WALLET_KEY_PASSWORD")

	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "HALOBOT_CHAIN_RPC_URL")
	setInt64(&cfg.Chain.ChainID, "HALOBOT_CHAIN_ID")

	// ── Contracts ──
	setStr(&cfg.Contracts.LendingPool, "HALOBOT_CONTRACTS_LENDING_POOL")
	setStr(&cfg.Contracts.Registry, "HALOBOT_CONTRACTS_REGISTRY")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "HALOBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "HALOBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "HALOBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "HALOBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "HALOBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "HALOBOT_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "HALOBOT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "HALOBOT_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "HALOBOT_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "HALOBOT_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "HALOBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "HALOBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "HALOBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "HALOBOT_NOTIFY_EVENTS")

	// ── Monitor ──
	setDuration(&cfg.Monitor.Interval, "HALOBOT_MONITOR_INTERVAL")
	setFloat64(&cfg.Monitor.HealthAlertThreshold, "HALOBOT_MONITOR_HEALTH_ALERT_THRESHOLD")
	setStringSlice(&cfg.Monitor.Borrowers, "HALOBOT_MONITOR_BORROWERS")

	// ── Top-level ──
	setStr(&cfg.Mode, "HALOBOT_MODE")
	setStr(&cfg.LogLevel, "HALOBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
