// Package cli provides flag binding and validation for the nft-mint CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/nft-mint/internal/config"
)

// BindFlags registers the mint flags on cmd. Flags shared with the ledger
// subcommands (--env-file, --ledger-path, --verbose) are persistent.
// The flags write into cfg; only flags the user set are later applied on top
// of the env file and environment through Overrides.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	persistent := cmd.PersistentFlags()

	// Network
	flags.StringVar(&cfg.Network, "network", cfg.Network, "Solana network: mainnet, testnet or devnet")
	flags.StringVar(&cfg.RPCURL, "rpc-url", "", "RPC URL (default: public endpoint of --network)")
	flags.StringVar(&cfg.PrivateKey, "private-key", "", "Private key of the server wallet (base58 encoded)")

	// Token
	flags.StringVar(&cfg.Recipient, "recipient", "", "Recipient wallet address")
	flags.StringVar(&cfg.Name, "name", "", "NFT name")
	flags.StringVar(&cfg.Description, "description", "", "NFT description")
	flags.StringVar(&cfg.Image, "image", "", "NFT image URL")
	flags.StringVar(&cfg.Player, "player", "", "Player name attribute")
	flags.StringVar(&cfg.Achievement, "achievement", "", "Achievement attribute")
	flags.StringVar(&cfg.AttributesFile, "attributes-file", "", "YAML file with extra attributes")

	// Executor tuning
	flags.IntVar(&cfg.ConfirmationTimeout, "confirmation-timeout", cfg.ConfirmationTimeout, "Timeout for transaction confirmation in milliseconds")
	flags.IntVar(&cfg.RetryCount, "retry-count", cfg.RetryCount, "Number of attempts for each failed operation")
	flags.IntVar(&cfg.SettleDelay, "settle-delay", cfg.SettleDelay, "Milliseconds to wait between creating and verifying the NFT")

	// Metadata storage
	flags.StringVar(&cfg.StorageEndpoint, "storage-endpoint", "", "S3-compatible endpoint (host:port)")
	flags.StringVar(&cfg.StorageAccessKey, "storage-access-key", "", "Storage access key")
	flags.StringVar(&cfg.StorageSecretKey, "storage-secret-key", "", "Storage secret key")
	flags.StringVar(&cfg.StorageBucket, "storage-bucket", cfg.StorageBucket, "Bucket for metadata documents")
	flags.StringVar(&cfg.StorageRegion, "storage-region", "", "Storage region")
	flags.BoolVar(&cfg.StorageUseSSL, "storage-use-ssl", cfg.StorageUseSSL, "Use HTTPS for the storage endpoint")
	flags.StringVar(&cfg.StoragePublicURL, "storage-public-url", "", "Public base URL of uploaded metadata (default: the endpoint)")

	// Ledger
	persistent.StringVar(&cfg.LedgerPath, "ledger-path", cfg.LedgerPath, "SQLite ledger of minted NFTs")
	var noLedger bool
	flags.BoolVar(&noLedger, "no-ledger", false, "Do not record the mint in the ledger")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", cfg.NotifyWebhook, "OpenClaw webhook URL")
	flags.StringVar(&cfg.NotifyChannel, "notify-channel", cfg.NotifyChannel, "Notification channel")
	flags.StringVar(&cfg.NotifyChatID, "notify-chat-id", "", "Recipient chat ID")

	// General
	persistent.StringVar(&cfg.EnvFile, "env-file", "", "Env file to load instead of ./.env")
	persistent.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every attempt")
}

// ValidateFlags checks flag values that can be verified before the
// configuration is assembled.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.EnvFile != "" {
		if _, err := os.Stat(cfg.EnvFile); err != nil {
			return fmt.Errorf("--env-file: %w", err)
		}
	}
	if cfg.AttributesFile != "" {
		if _, err := os.Stat(cfg.AttributesFile); err != nil {
			return fmt.Errorf("--attributes-file: %w", err)
		}
	}

	intFlags := map[string]int{
		"confirmation-timeout": cfg.ConfirmationTimeout,
		"retry-count":          cfg.RetryCount,
		"settle-delay":         cfg.SettleDelay,
	}
	for name, v := range intFlags {
		if cmd.Flags().Changed(name) && v < 0 {
			return fmt.Errorf("--%s must not be negative, got: %d", name, v)
		}
	}
	return nil
}

// Overrides maps the flags explicitly set on cmd to config keys, so that
// default flag values never shadow the env file or the environment.
func Overrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"network":            {"SOLANA_NETWORK", cfg.Network},
		"rpc-url":            {"SOLANA_RPC_URL", cfg.RPCURL},
		"private-key":        {"SOLANA_PRIVATE_KEY", cfg.PrivateKey},
		"recipient":          {"RECIPIENT", cfg.Recipient},
		"name":               {"NFT_NAME", cfg.Name},
		"description":        {"NFT_DESCRIPTION", cfg.Description},
		"image":              {"NFT_IMAGE", cfg.Image},
		"player":             {"PLAYER", cfg.Player},
		"achievement":        {"ACHIEVEMENT", cfg.Achievement},
		"attributes-file":    {"ATTRIBUTES_FILE", cfg.AttributesFile},
		"storage-endpoint":   {"STORAGE_ENDPOINT", cfg.StorageEndpoint},
		"storage-access-key": {"STORAGE_ACCESS_KEY", cfg.StorageAccessKey},
		"storage-secret-key": {"STORAGE_SECRET_KEY", cfg.StorageSecretKey},
		"storage-bucket":     {"STORAGE_BUCKET", cfg.StorageBucket},
		"storage-region":     {"STORAGE_REGION", cfg.StorageRegion},
		"storage-public-url": {"STORAGE_PUBLIC_URL", cfg.StoragePublicURL},
		"ledger-path":        {"LEDGER_PATH", cfg.LedgerPath},
		"notify-webhook":     {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
		"notify-channel":     {"NOTIFY_CHANNEL", cfg.NotifyChannel},
		"notify-chat-id":     {"NOTIFY_CHAT_ID", cfg.NotifyChatID},
	}
	for flag, mapping := range stringFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"confirmation-timeout": {"CONFIRMATION_TIMEOUT", cfg.ConfirmationTimeout},
		"retry-count":          {"RETRY_COUNT", cfg.RetryCount},
		"settle-delay":         {"SETTLE_DELAY", cfg.SettleDelay},
	}
	for flag, mapping := range intFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"storage-use-ssl": {"STORAGE_USE_SSL", cfg.StorageUseSSL},
		"verbose":         {"VERBOSE", cfg.Verbose},
	}
	for flag, mapping := range boolFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.FormatBool(mapping.val)
		}
	}

	if flags.Changed("no-ledger") {
		if off, _ := flags.GetBool("no-ledger"); off {
			overrides["ENABLE_LEDGER"] = "false"
		}
	}

	return overrides
}
