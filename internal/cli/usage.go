package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const helpTemplate = `nft-mint - Mint a Solana NFT and transfer it to a recipient

USAGE
  nft-mint [flags]
  nft-mint list [--limit N]
  nft-mint info <mint>

FLAGS
  Network:
    --network <mainnet|testnet|devnet>     Solana network (default: devnet)
    --rpc-url <url>                        RPC URL (default: public endpoint of --network)
    --private-key <base58>                 Server wallet secret key (or SOLANA_PRIVATE_KEY)

  Token:
    --recipient <address>                  Recipient wallet address (required)
    --name <text>                          NFT name (required)
    --description <text>                   NFT description (required)
    --image <url>                          NFT image URL (required)
    --player <name>                        Player attribute
    --achievement <key>                    Achievement attribute
    --attributes-file <path>               YAML file with extra attributes

  Retries:
    --confirmation-timeout <ms>            Transaction confirmation timeout (default: 60000)
    --retry-count <int>                    Attempts per operation (default: 5)
    --settle-delay <ms>                    Wait between create and verify (default: 10000)

  Metadata Storage:
    --storage-endpoint <host:port>         S3-compatible endpoint (required)
    --storage-access-key <key>             Access key
    --storage-secret-key <key>             Secret key
    --storage-bucket <name>                Bucket (default: nft-metadata)
    --storage-region <region>              Region
    --storage-use-ssl                      Use HTTPS (default: true)
    --storage-public-url <url>             Public base URL of metadata (default: the endpoint)

  Ledger:
    --ledger-path <path>                   SQLite ledger (default: .nft-mint/ledger.db)
    --no-ledger                            Do not record the mint

  Notifications:
    --notify-webhook <url>                 OpenClaw webhook URL (default: http://127.0.0.1:18789/webhook)
    --notify-channel <channel>             Notification channel (default: telegram)
    --notify-chat-id <id>                  Recipient chat ID (required to enable notifications)

  General:
    --env-file <path>                      Env file to load (default: ./.env, then .env beside the binary)
    -v, --verbose                          Log every attempt
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

ENVIRONMENT
  SOLANA_PRIVATE_KEY, SOLANA_NETWORK, SOLANA_RPC_URL, CONFIRMATION_TIMEOUT,
  RETRY_COUNT, SETTLE_DELAY, STORAGE_ENDPOINT, STORAGE_ACCESS_KEY,
  STORAGE_SECRET_KEY, STORAGE_BUCKET, STORAGE_REGION, STORAGE_USE_SSL,
  STORAGE_PUBLIC_URL, LEDGER_PATH, ENABLE_LEDGER, NOTIFY_WEBHOOK,
  NOTIFY_CHANNEL, NOTIFY_CHAT_ID, VERBOSE
  Flags override the environment, which overrides the env file.

OUTPUT
  On success a single line is printed to stdout:
    SUCCESS:<tokenAccountAddress>:<mintAddress>
  Everything else goes to stderr.

EXIT CODES
  0   Success              NFT minted and transferred
  1   Error                Invalid configuration or unrecoverable failure
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Mint on devnet with settings from ./.env
  nft-mint --recipient <ADDRESS> --name "Champion" --description "Won the cup" \
    --image https://example.com/cup.png --player alice --achievement first_place

  # Show the last 10 mints
  nft-mint list --limit 10

For more information, see: https://github.com/CodexForgeBR/nft-mint
`

// SetCustomHelp configures the root command to use our custom help template.
// Subcommands keep cobra's default help.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c == cmd {
			fmt.Fprint(c.OutOrStdout(), helpTemplate)
			return
		}
		fmt.Fprintf(c.OutOrStdout(), "%s\n\n%s", c.Short, c.UsageString())
	})
}
