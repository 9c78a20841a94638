package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/nft-mint/internal/banner"
	"github.com/CodexForgeBR/nft-mint/internal/chain"
	"github.com/CodexForgeBR/nft-mint/internal/cli"
	"github.com/CodexForgeBR/nft-mint/internal/config"
	"github.com/CodexForgeBR/nft-mint/internal/diagnose"
	"github.com/CodexForgeBR/nft-mint/internal/exitcode"
	"github.com/CodexForgeBR/nft-mint/internal/ledger"
	"github.com/CodexForgeBR/nft-mint/internal/logging"
	"github.com/CodexForgeBR/nft-mint/internal/metadata"
	"github.com/CodexForgeBR/nft-mint/internal/mint"
	"github.com/CodexForgeBR/nft-mint/internal/notification"
	sighandler "github.com/CodexForgeBR/nft-mint/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitError carries an exit code whose message was already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return exitcode.Name(e.code)
}

// Constructors for the collaborators that reach the process environment or
// the network. Tests replace them.
var (
	environ = os.Environ

	newChain = func(cfg *config.Config) mint.Chain {
		return chain.Dial(cfg.RPCURL, chain.Options{
			ConfirmationTimeout: time.Duration(cfg.ConfirmationTimeout) * time.Millisecond,
		})
	}

	newUploader = func(cfg *config.Config) (metadata.Uploader, error) {
		return metadata.NewObjectStoreUploader(metadata.StoreConfig{
			Endpoint:  cfg.StorageEndpoint,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
			Region:    cfg.StorageRegion,
			UseSSL:    cfg.StorageUseSSL,
			PublicURL: cfg.StoragePublicURL,
		})
	}
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		logging.Error(err.Error())
		os.Exit(exitcode.Error)
	}
}

func newRootCmd() *cobra.Command {
	flagCfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "nft-mint",
		Short:   "Mint a Solana NFT and transfer it to a recipient",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFlags(cmd, flagCfg); err != nil {
				return err
			}
			return runMint(cmd, flagCfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(rootCmd, flagCfg)
	cli.SetCustomHelp(rootCmd)
	rootCmd.AddCommand(newListCmd(flagCfg), newInfoCmd(flagCfg))
	return rootCmd
}

// envCandidates lists the env files tried when --env-file is not given:
// the working directory first, then the directory of the executable.
func envCandidates() []string {
	candidates := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return candidates
}

// loadConfig assembles the configuration with full precedence: defaults, env
// file, process environment, then flags explicitly set on cmd.
func loadConfig(cmd *cobra.Command, flagCfg *config.Config) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ExplicitEnvFile:   flagCfg.EnvFile,
		CandidateEnvFiles: envCandidates(),
		Environ:           environ(),
		Overrides:         cli.Overrides(cmd, flagCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.EnvFile = flagCfg.EnvFile
	logging.SetVerbose(cfg.Verbose)
	return cfg, nil
}

// fail logs msg and returns an error that exits with status 1.
func fail(msg string) error {
	logging.Error(msg)
	return &exitError{code: exitcode.Error}
}

func runMint(cmd *cobra.Command, flagCfg *config.Config) error {
	cfg, err := loadConfig(cmd, flagCfg)
	if err != nil {
		return err
	}
	if cfg.LoadedEnvFile != "" {
		logging.Debug(fmt.Sprintf("Loaded environment from %s", cfg.LoadedEnvFile))
	}

	// Everything fatal is checked before the first network call.
	if err := cfg.Validate(); err != nil {
		return fail("Error: " + err.Error())
	}
	recipient, err := chain.ParseAddress(cfg.Recipient)
	if err != nil {
		return fail("Error: Invalid recipient address")
	}
	wallet, err := chain.LoadWallet(cfg.PrivateKey)
	if err != nil {
		return fail("Error: Invalid private key: " + err.Error())
	}

	var extra []metadata.Attribute
	if cfg.AttributesFile != "" {
		extra, err = metadata.LoadAttributes(cfg.AttributesFile)
		if err != nil {
			return fail("Error: " + err.Error())
		}
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		return fail("Error: " + err.Error())
	}

	banner.PrintStartupBanner(cfg)
	logging.Info("Starting minting process...")

	notifier := notification.NewSender(cfg.NotifyWebhook, cfg.NotifyChannel, cfg.NotifyChatID)

	minter := &mint.Minter{
		Chain:     newChain(cfg),
		Uploader:  uploader,
		Notifier:  notifier,
		Payer:     wallet,
		Recipient: recipient,
		Input: metadata.Input{
			Name:        cfg.Name,
			Description: cfg.Description,
			Image:       cfg.Image,
			Player:      cfg.Player,
			Achievement: cfg.Achievement,
			Extra:       extra,
		},
		Network:     cfg.Network,
		RetryCount:  cfg.RetryCount,
		SettleDelay: time.Duration(cfg.SettleDelay) * time.Millisecond,
	}

	if cfg.EnableLedger {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			logging.Warn(fmt.Sprintf("Ledger disabled: %v", err))
		} else {
			defer store.Close()
			minter.Recorder = store
		}
	}

	ctx, sig := sighandler.Notify(context.Background(), func(s os.Signal) {
		logging.Warn(fmt.Sprintf("Received %s, stopping...", s))
	})
	defer sig.Stop()

	start := time.Now()
	res, err := minter.Run(ctx)
	if err != nil {
		summary := notification.Summary{
			Name:      cfg.Name,
			Recipient: cfg.Recipient,
			Network:   cfg.Network,
			Detail:    err.Error(),
		}
		if sig.Interrupted() {
			banner.PrintInterruptedBanner(minter.Progress())
			summary.ExitCode = exitcode.Interrupted
			notifier.Notify(notification.EventInterrupted, summary)
			return &exitError{code: exitcode.Interrupted}
		}
		banner.PrintFailureBanner(err, diagnose.Lines(err))
		summary.ExitCode = exitcode.Error
		notifier.Notify(notification.EventFailed, summary)
		return &exitError{code: exitcode.Error}
	}

	banner.PrintSuccessBanner(res.Mint.String(), res.RecordAddress.String(), res.MetadataURI,
		res.Signature.String(), int(time.Since(start).Seconds()))
	fmt.Fprintf(cmd.OutOrStdout(), "SUCCESS:%s:%s\n", res.RecordAddress, res.Mint)
	return nil
}
