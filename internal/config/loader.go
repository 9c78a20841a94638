package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE env file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - A leading "export " is ignored.
//   - Lines without an = sign are skipped.
//   - Whitespace is trimmed from key and value; matching surrounding quotes
//     are removed from the value.
//   - Keys not present in WhitelistedVars are silently ignored.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		// Split on first '=' only.
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := unquote(strings.TrimSpace(line[idx+1:]))

		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	return result, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// FromEnviron extracts whitelisted, non-empty variables from a list of
// KEY=VALUE strings in the form returned by os.Environ.
func FromEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !whitelistSet[key] {
			continue
		}
		result[key] = value
	}
	return result
}

// LoadOptions describes the configuration sources for Load.
type LoadOptions struct {
	// ExplicitEnvFile must exist when set; CandidateEnvFiles are then ignored.
	ExplicitEnvFile string
	// CandidateEnvFiles are tried in order; the first one that exists is used.
	CandidateEnvFiles []string
	// Environ is the process environment (os.Environ format).
	Environ []string
	// Overrides are CLI flags explicitly set by the user.
	Overrides map[string]string
}

// Load assembles a Config by merging sources in order of increasing priority:
//
//  1. Built-in defaults
//  2. Env file (explicit, or the first existing candidate)
//  3. Process environment
//  4. CLI overrides
//
// The result has Finalize applied but is not validated.
func Load(opts LoadOptions) (*Config, error) {
	cfg := NewDefaultConfig()

	if opts.ExplicitEnvFile != "" {
		m, err := LoadFile(opts.ExplicitEnvFile)
		if err != nil {
			return nil, fmt.Errorf("explicit env file: %w", err)
		}
		ApplyMapToConfig(cfg, m)
		cfg.LoadedEnvFile = opts.ExplicitEnvFile
	} else {
		for _, path := range opts.CandidateEnvFiles {
			if path == "" {
				continue
			}
			m, err := LoadFile(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("env file %s: %w", path, err)
			}
			ApplyMapToConfig(cfg, m)
			cfg.LoadedEnvFile = path
			break
		}
	}

	if len(opts.Environ) > 0 {
		ApplyMapToConfig(cfg, FromEnviron(opts.Environ))
	}

	if len(opts.Overrides) > 0 {
		ApplyMapToConfig(cfg, opts.Overrides)
	}

	cfg.Finalize()
	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Besides WhitelistedVars it understands the CLI-only keys RECIPIENT,
// NFT_NAME, NFT_DESCRIPTION, NFT_IMAGE, PLAYER, ACHIEVEMENT and
// ATTRIBUTES_FILE. Unknown keys are silently ignored. Integer fields that
// fail to parse keep their previous value.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "SOLANA_PRIVATE_KEY":
			cfg.PrivateKey = value
		case "SOLANA_NETWORK":
			cfg.Network = value
		case "SOLANA_RPC_URL":
			cfg.RPCURL = value
		case "CONFIRMATION_TIMEOUT":
			setInt(&cfg.ConfirmationTimeout, value)
		case "RETRY_COUNT":
			setInt(&cfg.RetryCount, value)
		case "SETTLE_DELAY":
			setInt(&cfg.SettleDelay, value)
		case "STORAGE_ENDPOINT":
			cfg.StorageEndpoint = value
		case "STORAGE_ACCESS_KEY":
			cfg.StorageAccessKey = value
		case "STORAGE_SECRET_KEY":
			cfg.StorageSecretKey = value
		case "STORAGE_BUCKET":
			cfg.StorageBucket = value
		case "STORAGE_REGION":
			cfg.StorageRegion = value
		case "STORAGE_USE_SSL":
			cfg.StorageUseSSL = parseBool(value)
		case "STORAGE_PUBLIC_URL":
			cfg.StoragePublicURL = value
		case "LEDGER_PATH":
			cfg.LedgerPath = value
		case "ENABLE_LEDGER":
			cfg.EnableLedger = parseBool(value)
		case "NOTIFY_WEBHOOK":
			cfg.NotifyWebhook = value
		case "NOTIFY_CHANNEL":
			cfg.NotifyChannel = value
		case "NOTIFY_CHAT_ID":
			cfg.NotifyChatID = value
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "RECIPIENT":
			cfg.Recipient = value
		case "NFT_NAME":
			cfg.Name = value
		case "NFT_DESCRIPTION":
			cfg.Description = value
		case "NFT_IMAGE":
			cfg.Image = value
		case "PLAYER":
			cfg.Player = value
		case "ACHIEVEMENT":
			cfg.Achievement = value
		case "ATTRIBUTES_FILE":
			cfg.AttributesFile = value
		}
	}
}

func setInt(dst *int, value string) {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		*dst = v
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
