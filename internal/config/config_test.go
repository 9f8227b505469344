package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, "serve", cfg.Mode)
	require.Equal(t, int64(8453), cfg.Chain.ChainID)
	require.Equal(t, "USDC", cfg.StableAsset().Symbol)
	require.Equal(t, 30*time.Second, cfg.Monitor.Interval.Duration)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
mode = "monitor"
log_level = "debug"

[chain]
rpc_url = "http://localhost:8545"
chain_id = 31337

[monitor]
interval = "5s"
borrowers = ["0x00000000000000000000000000000000000000BB"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "monitor", cfg.Mode)
	require.Equal(t, "http://localhost:8545", cfg.Chain.RPCURL)
	require.Equal(t, int64(31337), cfg.Chain.ChainID)
	require.Equal(t, 5*time.Second, cfg.Monitor.Interval.Duration)
	require.Len(t, cfg.Monitor.Borrowers, 1)

	// Untouched sections keep their defaults.
	require.Equal(t, 8080, cfg.Server.Port)
	require.Len(t, cfg.Contracts.Assets, 2)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `mode = "serve"`)

	t.Setenv("HALOBOT_MODE", "full")
	t.Setenv("HALOBOT_REDIS_ADDR", "redis:6379")
	t.Setenv("HALOBOT_SERVER_PORT", "9090")
	t.Setenv("HALOBOT_NOTIFY_EVENTS", "tx_confirmed, tx_failed")
	t.Setenv("HALOBOT_MONITOR_INTERVAL", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "full", cfg.Mode)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, []string{"tx_confirmed", "tx_failed"}, cfg.Notify.Events)
	require.Equal(t, time.Minute, cfg.Monitor.Interval.Duration)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "dance"
	cfg.Chain.RPCURL = ""
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown mode "dance"`)
	require.Contains(t, err.Error(), "rpc_url")
	require.Contains(t, err.Error(), "port")
}

func TestValidateRequiresOneStableAsset(t *testing.T) {
	cfg := Defaults()
	for i := range cfg.Contracts.Assets {
		cfg.Contracts.Assets[i].Stable = false
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "exactly one asset must be marked stable")

	for i := range cfg.Contracts.Assets {
		cfg.Contracts.Assets[i].Stable = true
	}
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "got 2")
}

func TestValidateEncryptedKeyNeedsPassword(t *testing.T) {
	cfg := Defaults()
	cfg.Wallet.EncryptedKeyPath = "/etc/halobot/key.json"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "key_password")

	cfg.Wallet.KeyPassword = "secret"
	require.NoError(t, cfg.Validate())
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Wallet.PrivateKey = "0xdeadbeef"
	cfg.Wallet.KeyPassword = "secret"
	cfg.Redis.Password = "redispass"
	cfg.Server.APIKey = "apikey"
	cfg.Notify.TelegramToken = "tok"
	cfg.Notify.DiscordWebhookURL = "https://discord.example/hook"

	red := RedactedConfig(&cfg)
	require.NotEqual(t, cfg.Wallet.PrivateKey, red.Wallet.PrivateKey)
	require.NotContains(t, red.Wallet.PrivateKey, "deadbeef")
	require.NotEqual(t, cfg.Redis.Password, red.Redis.Password)
	require.NotEqual(t, cfg.Server.APIKey, red.Server.APIKey)
	require.NotEqual(t, cfg.Notify.TelegramToken, red.Notify.TelegramToken)
	require.NotEqual(t, cfg.Notify.DiscordWebhookURL, red.Notify.DiscordWebhookURL)

	// The original is untouched.
	require.Equal(t, "0xdeadbeef", cfg.Wallet.PrivateKey)
}
