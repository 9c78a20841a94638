package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/nft-mint/internal/config"
	"github.com/CodexForgeBR/nft-mint/internal/ledger"
)

func newListCmd(flagCfg *config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List NFTs recorded in the ledger, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLedger(cmd, flagCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No NFTs recorded.")
				return nil
			}
			return writeEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries (0 for all)")
	return cmd
}

func newInfoCmd(flagCfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info <mint>",
		Short: "Show the ledger entry of one NFT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLedger(cmd, flagCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, ledger.ErrNotFound) {
				return fmt.Errorf("no NFT with mint %s in the ledger", args[0])
			}
			if err != nil {
				return err
			}
			writeEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
}

// openLedger opens an existing ledger; it never creates one.
func openLedger(cmd *cobra.Command, flagCfg *config.Config) (*ledger.Store, error) {
	cfg, err := loadConfig(cmd, flagCfg)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.LedgerPath); err != nil {
		return nil, fmt.Errorf("ledger %s: %w", cfg.LedgerPath, err)
	}
	return ledger.Open(cfg.LedgerPath)
}

func writeEntries(w io.Writer, entries []ledger.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MINTED\tNAME\tPLAYER\tACHIEVEMENT\tNETWORK\tMINT\tRECIPIENT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.MintedAt.Local().Format(time.DateTime), e.Name, dash(e.Player), dash(e.Achievement),
			e.Network, e.Mint, e.Recipient)
	}
	return tw.Flush()
}

func writeEntry(w io.Writer, e ledger.Entry) {
	fmt.Fprintf(w, "ID:           %s\n", e.ID)
	fmt.Fprintf(w, "Name:         %s\n", e.Name)
	fmt.Fprintf(w, "Player:       %s\n", dash(e.Player))
	fmt.Fprintf(w, "Achievement:  %s\n", dash(e.Achievement))
	fmt.Fprintf(w, "Network:      %s\n", e.Network)
	fmt.Fprintf(w, "Mint:         %s\n", e.Mint)
	fmt.Fprintf(w, "Token record: %s\n", e.RecordAddress)
	fmt.Fprintf(w, "Recipient:    %s\n", e.Recipient)
	fmt.Fprintf(w, "Metadata:     %s\n", dash(e.MetadataURI))
	fmt.Fprintf(w, "Signature:    %s\n", dash(e.Signature))
	fmt.Fprintf(w, "Minted at:    %s\n", e.MintedAt.Format(time.RFC3339))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
