package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/nft-mint/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SOLANA_NETWORK=mainnet\nRETRY_COUNT=3\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "mainnet", m["SOLANA_NETWORK"])
	assert.Equal(t, "3", m["RETRY_COUNT"])
}

func TestLoadFileSkipsCommentsAndEmptyLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "# Solana NFT Plugin Configuration\n\nSOLANA_NETWORK=devnet\n\n# trailing\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.Equal(t, "devnet", m["SOLANA_NETWORK"])
}

func TestLoadFileTrimsWhitespaceAndQuotes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "  SOLANA_RPC_URL  =  \"https://rpc.example.com\"  \nSTORAGE_BUCKET='nfts'\nSTORAGE_REGION=\"us-east-1\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.com", m["SOLANA_RPC_URL"])
	assert.Equal(t, "nfts", m["STORAGE_BUCKET"])
	// Unbalanced quotes are kept as-is.
	assert.Equal(t, "\"us-east-1", m["STORAGE_REGION"])
}

func TestLoadFileHandlesExportPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "export SOLANA_PRIVATE_KEY=abc123\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", m["SOLANA_PRIVATE_KEY"])
}

func TestLoadFileSkipsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "SOLANA_NETWORK=devnet\nMINT_FEE=0.000005\nRECIPIENT=someone\nthis has no equals\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, m, 1)
	assert.NotContains(t, m, "MINT_FEE")
	assert.NotContains(t, m, "RECIPIENT", "recipient is CLI-only")
}

func TestLoadFileValueWithEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "NOTIFY_WEBHOOK=http://host:8080/path?key=val\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://host:8080/path?key=val", m["NOTIFY_WEBHOOK"])
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile("/nonexistent/path/.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// FromEnviron tests
// ---------------------------------------------------------------------------

func TestFromEnvironFiltersWhitelistAndEmpty(t *testing.T) {
	m := config.FromEnviron([]string{
		"PATH=/usr/bin",
		"SOLANA_PRIVATE_KEY=key",
		"RETRY_COUNT=",
		"CONFIRMATION_TIMEOUT=30000",
		"MALFORMED",
	})

	assert.Equal(t, map[string]string{
		"SOLANA_PRIVATE_KEY":   "key",
		"CONFIRMATION_TIMEOUT": "30000",
	}, m)
}

// ---------------------------------------------------------------------------
// Load precedence tests
// ---------------------------------------------------------------------------

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "devnet", cfg.Network)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.RPCURL)
	assert.Equal(t, 5, cfg.RetryCount)
	assert.Empty(t, cfg.LoadedEnvFile)
}

func TestLoadFirstExistingCandidateWins(t *testing.T) {
	dir := t.TempDir()
	second := writeFile(t, dir, "second.env", "RETRY_COUNT=7\n")
	third := writeFile(t, dir, "third.env", "RETRY_COUNT=9\n")

	cfg, err := config.Load(config.LoadOptions{
		CandidateEnvFiles: []string{filepath.Join(dir, "missing.env"), "", second, third},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.RetryCount)
	assert.Equal(t, second, cfg.LoadedEnvFile)
}

func TestLoadExplicitEnvFileSkipsCandidates(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit.env", "SETTLE_DELAY=0\n")
	candidate := writeFile(t, dir, "candidate.env", "RETRY_COUNT=9\n")

	cfg, err := config.Load(config.LoadOptions{
		ExplicitEnvFile:   explicit,
		CandidateEnvFiles: []string{candidate},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.SettleDelay)
	assert.Equal(t, 5, cfg.RetryCount)
	assert.Equal(t, explicit, cfg.LoadedEnvFile)
}

func TestLoadMissingExplicitIsError(t *testing.T) {
	_, err := config.Load(config.LoadOptions{ExplicitEnvFile: "/nonexistent/.env"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit env file")
}

func TestLoadUnreadableCandidateIsError(t *testing.T) {
	dir := t.TempDir()
	dirPath := filepath.Join(dir, "env-dir")
	require.NoError(t, os.Mkdir(dirPath, 0755))

	_, err := config.Load(config.LoadOptions{CandidateEnvFiles: []string{dirPath}})
	assert.Error(t, err)
}

func TestLoadFullChain(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "SOLANA_PRIVATE_KEY=from-file\nSOLANA_NETWORK=testnet\nRETRY_COUNT=2\nSTORAGE_BUCKET=file-bucket\n")

	cfg, err := config.Load(config.LoadOptions{
		CandidateEnvFiles: []string{envFile},
		Environ:           []string{"SOLANA_PRIVATE_KEY=from-env", "RETRY_COUNT=4"},
		Overrides:         map[string]string{"RETRY_COUNT": "8", "RECIPIENT": "wallet", "NFT_NAME": "Axe"},
	})
	require.NoError(t, err)

	// Env file.
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "file-bucket", cfg.StorageBucket)
	assert.Equal(t, "https://api.testnet.solana.com", cfg.RPCURL)
	// Environment beats file.
	assert.Equal(t, "from-env", cfg.PrivateKey)
	// CLI beats everything.
	assert.Equal(t, 8, cfg.RetryCount)
	assert.Equal(t, "wallet", cfg.Recipient)
	assert.Equal(t, "Axe", cfg.Name)
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigAllKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"SOLANA_PRIVATE_KEY":   "pk",
		"SOLANA_NETWORK":       "mainnet",
		"SOLANA_RPC_URL":       "https://rpc",
		"CONFIRMATION_TIMEOUT": "1000",
		"RETRY_COUNT":          "2",
		"SETTLE_DELAY":         "500",
		"STORAGE_ENDPOINT":     "s3.local:9000",
		"STORAGE_ACCESS_KEY":   "ak",
		"STORAGE_SECRET_KEY":   "sk",
		"STORAGE_BUCKET":       "b",
		"STORAGE_REGION":       "eu",
		"STORAGE_USE_SSL":      "no",
		"STORAGE_PUBLIC_URL":   "https://cdn",
		"LEDGER_PATH":          "/tmp/l.db",
		"ENABLE_LEDGER":        "false",
		"NOTIFY_WEBHOOK":       "http://hook",
		"NOTIFY_CHANNEL":       "discord",
		"NOTIFY_CHAT_ID":       "42",
		"VERBOSE":              "YES",
		"RECIPIENT":            "r",
		"NFT_NAME":             "n",
		"NFT_DESCRIPTION":      "d",
		"NFT_IMAGE":            "i",
		"PLAYER":               "p",
		"ACHIEVEMENT":          "a",
		"ATTRIBUTES_FILE":      "attrs.yaml",
	})

	assert.Equal(t, "pk", cfg.PrivateKey)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "https://rpc", cfg.RPCURL)
	assert.Equal(t, 1000, cfg.ConfirmationTimeout)
	assert.Equal(t, 2, cfg.RetryCount)
	assert.Equal(t, 500, cfg.SettleDelay)
	assert.Equal(t, "s3.local:9000", cfg.StorageEndpoint)
	assert.Equal(t, "ak", cfg.StorageAccessKey)
	assert.Equal(t, "sk", cfg.StorageSecretKey)
	assert.Equal(t, "b", cfg.StorageBucket)
	assert.Equal(t, "eu", cfg.StorageRegion)
	assert.False(t, cfg.StorageUseSSL)
	assert.Equal(t, "https://cdn", cfg.StoragePublicURL)
	assert.Equal(t, "/tmp/l.db", cfg.LedgerPath)
	assert.False(t, cfg.EnableLedger)
	assert.Equal(t, "http://hook", cfg.NotifyWebhook)
	assert.Equal(t, "discord", cfg.NotifyChannel)
	assert.Equal(t, "42", cfg.NotifyChatID)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "r", cfg.Recipient)
	assert.Equal(t, "n", cfg.Name)
	assert.Equal(t, "d", cfg.Description)
	assert.Equal(t, "i", cfg.Image)
	assert.Equal(t, "p", cfg.Player)
	assert.Equal(t, "a", cfg.Achievement)
	assert.Equal(t, "attrs.yaml", cfg.AttributesFile)
}

func TestApplyMapToConfigKeepsValueOnBadInt(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"RETRY_COUNT":          "five",
		"CONFIRMATION_TIMEOUT": "",
	})

	assert.Equal(t, 5, cfg.RetryCount)
	assert.Equal(t, 60000, cfg.ConfirmationTimeout)
}
