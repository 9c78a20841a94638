// Package config defines the nft-mint configuration model and default values.
//
// Configuration is assembled once at startup from multiple sources with a
// strict precedence chain: built-in defaults < env file < process
// environment < CLI flag overrides. The resulting *Config is passed to every
// collaborator; nothing below cmd/ reads process state directly.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// WhitelistedVars lists every variable name that may be read from env files
// or the process environment. Anything else is silently ignored.
var WhitelistedVars = [19]string{
	"SOLANA_PRIVATE_KEY",
	"SOLANA_NETWORK",
	"SOLANA_RPC_URL",
	"CONFIRMATION_TIMEOUT",
	"RETRY_COUNT",
	"SETTLE_DELAY",
	"STORAGE_ENDPOINT",
	"STORAGE_ACCESS_KEY",
	"STORAGE_SECRET_KEY",
	"STORAGE_BUCKET",
	"STORAGE_REGION",
	"STORAGE_USE_SSL",
	"STORAGE_PUBLIC_URL",
	"LEDGER_PATH",
	"ENABLE_LEDGER",
	"NOTIFY_WEBHOOK",
	"NOTIFY_CHANNEL",
	"NOTIFY_CHAT_ID",
	"VERBOSE",
}

// Networks accepted by --network.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkDevnet  = "devnet"
)

// MaxRetryCount bounds RetryCount. The backoff after attempt 30 is already
// measured in decades.
const MaxRetryCount = 30

// MaxNameLength is the longest token name, in bytes, the Token Metadata
// program accepts.
const MaxNameLength = 32

// placeholderKey is the value written by the generated .env template.
const placeholderKey = "your_private_key_here"

// Config holds every configuration field for the nft-mint CLI.
type Config struct {
	// Network selection.
	Network string
	RPCURL  string

	// Server wallet secret key, base58 encoded.
	PrivateKey string

	// Token and recipient.
	Recipient      string
	Name           string
	Description    string
	Image          string
	Player         string
	Achievement    string
	AttributesFile string

	// Executor tuning, in milliseconds where applicable.
	ConfirmationTimeout int
	RetryCount          int
	SettleDelay         int

	// S3-compatible metadata storage.
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
	StoragePublicURL string

	// Local mint ledger.
	LedgerPath   string
	EnableLedger bool

	// Notification settings.
	NotifyWebhook string
	NotifyChannel string
	NotifyChatID  string

	Verbose bool

	// CLI-only.
	EnvFile string

	// LoadedEnvFile records which env file was applied, if any.
	LoadedEnvFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
// RPCURL is left empty and resolved from the network by Finalize.
func NewDefaultConfig() *Config {
	return &Config{
		Network:             NetworkDevnet,
		ConfirmationTimeout: 60000,
		RetryCount:          5,
		SettleDelay:         10000,
		StorageBucket:       "nft-metadata",
		StorageUseSSL:       true,
		LedgerPath:          ".nft-mint/ledger.db",
		EnableLedger:        true,
		NotifyWebhook:       "http://127.0.0.1:18789/webhook",
		NotifyChannel:       "telegram",
	}
}

// DefaultRPCURL returns the public RPC endpoint for a network.
func DefaultRPCURL(network string) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	default:
		return "https://api.devnet.solana.com"
	}
}

// Finalize fills values derived from other fields.
func (c *Config) Finalize() {
	c.Network = strings.ToLower(strings.TrimSpace(c.Network))
	if c.RPCURL == "" {
		c.RPCURL = DefaultRPCURL(c.Network)
	}
	if c.PrivateKey == placeholderKey {
		c.PrivateKey = ""
	}
}

// Validation errors. Each is fatal before any network call is made.
var (
	ErrMissingPrivateKey = errors.New("private key is required. Provide it via --private-key or SOLANA_PRIVATE_KEY environment variable")
	ErrMissingRecipient  = errors.New("recipient address is required")
	ErrMissingMetadata   = errors.New("NFT metadata (name, description, image) is required")
	ErrMissingStorage    = errors.New("metadata storage is required. Provide --storage-endpoint or STORAGE_ENDPOINT")
)

// Validate checks required fields and value ranges for a mint run.
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return ErrMissingPrivateKey
	}
	if c.Recipient == "" {
		return ErrMissingRecipient
	}
	if c.Name == "" || c.Description == "" || c.Image == "" {
		return ErrMissingMetadata
	}
	if len(c.Name) > MaxNameLength {
		return fmt.Errorf("name must be at most %d bytes, got: %d", MaxNameLength, len(c.Name))
	}
	switch c.Network {
	case NetworkMainnet, NetworkTestnet, NetworkDevnet:
	default:
		return fmt.Errorf("network must be mainnet, testnet or devnet, got: %s", c.Network)
	}
	if c.RetryCount < 1 {
		return fmt.Errorf("retry count must be at least 1, got: %d", c.RetryCount)
	}
	if c.RetryCount > MaxRetryCount {
		return fmt.Errorf("retry count must be at most %d, got: %d", MaxRetryCount, c.RetryCount)
	}
	if c.ConfirmationTimeout <= 0 {
		return fmt.Errorf("confirmation timeout must be positive, got: %d", c.ConfirmationTimeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got: %d", c.SettleDelay)
	}
	if c.StorageEndpoint == "" {
		return ErrMissingStorage
	}
	if c.StorageBucket == "" {
		return errors.New("storage bucket must not be empty")
	}
	return nil
}
