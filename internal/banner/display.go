// Package banner prints the framed summaries shown at the start and end of a
// mint run.
//
// Banners go to stderr like the log lines, keeping stdout free for the
// SUCCESS line.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/nft-mint/internal/config"
	"github.com/CodexForgeBR/nft-mint/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

var out io.Writer = os.Stderr

// SetOutput redirects banner output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

// PrintStartupBanner displays the resolved settings of a mint run.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  NFT Minting Process
//	═══════════════════════════════════════════════════
//	  Network:              devnet
//	  RPC URL:              https://api.devnet.solana.com
//	  Recipient:            9xQe...
//	  NFT Name:             Champion
//	  Player:               alice
//	  Achievement:          Not specified
//	  Confirmation Timeout: 60000ms
//	  Retry Count:          5
//	═══════════════════════════════════════════════════
func PrintStartupBanner(cfg *config.Config) {
	sep := headerColor(rule)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, headerColor("  NFT Minting Process"))
	fmt.Fprintln(out, sep)
	fmt.Fprintf(out, "  Network:              %s\n", cfg.Network)
	fmt.Fprintf(out, "  RPC URL:              %s\n", cfg.RPCURL)
	fmt.Fprintf(out, "  Recipient:            %s\n", cfg.Recipient)
	fmt.Fprintf(out, "  NFT Name:             %s\n", cfg.Name)
	fmt.Fprintf(out, "  Player:               %s\n", orNotSpecified(cfg.Player))
	fmt.Fprintf(out, "  Achievement:          %s\n", orNotSpecified(cfg.Achievement))
	fmt.Fprintf(out, "  Confirmation Timeout: %dms\n", cfg.ConfirmationTimeout)
	fmt.Fprintf(out, "  Retry Count:          %d\n", cfg.RetryCount)
	if cfg.LoadedEnvFile != "" {
		fmt.Fprintf(out, "  Env File:             %s\n", cfg.LoadedEnvFile)
	}
	fmt.Fprintln(out, sep)
}

// PrintSuccessBanner displays the addresses of a completed mint.
func PrintSuccessBanner(mint, holder, metadataURI, signature string, durationSecs int) {
	sep := successColor(rule)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, successColor("  ✓ NFT minted and transferred"))
	fmt.Fprintf(out, "  Mint:        %s\n", mint)
	fmt.Fprintf(out, "  Holder:      %s\n", holder)
	fmt.Fprintf(out, "  Metadata:    %s\n", metadataURI)
	fmt.Fprintf(out, "  Transfer tx: %s\n", signature)
	fmt.Fprintf(out, "  Duration:    %s (%ds)\n", logging.FormatDuration(durationSecs), durationSecs)
	fmt.Fprintln(out, sep)
}

// PrintFailureBanner displays the error followed by remediation hints.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ Error minting NFT
//	═══════════════════════════════════════════════════
//	  create nft: insufficient funds for rent
//
//	  The server wallet does not have enough SOL ...
//	═══════════════════════════════════════════════════
func PrintFailureBanner(err error, hints []string) {
	sep := errorColor(rule)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, errorColor("  ✗ Error minting NFT"))
	fmt.Fprintln(out, sep)
	fmt.Fprintf(out, "  %v\n", err)
	if len(hints) > 0 {
		fmt.Fprintln(out)
		for _, h := range hints {
			fmt.Fprintf(out, "  %s\n", h)
		}
	}
	fmt.Fprintln(out, sep)
}

// PrintInterruptedBanner displays the step a signal interrupted. Steps that
// completed before it are listed so the operator can check the chain.
func PrintInterruptedBanner(step string, completed []string) {
	sep := warnColor(rule)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, warnColor("  ⚠ Minting interrupted"))
	fmt.Fprintf(out, "  Step:      %s\n", orNotSpecified(step))
	if len(completed) > 0 {
		fmt.Fprintf(out, "  Completed: %s\n", strings.Join(completed, ", "))
	}
	fmt.Fprintln(out, sep)
}
