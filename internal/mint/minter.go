// Package mint runs the end-to-end mint: upload metadata, create the token,
// verify it, transfer it to the recipient and record the result.
package mint

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/CodexForgeBR/nft-mint/internal/chain"
	"github.com/CodexForgeBR/nft-mint/internal/ledger"
	"github.com/CodexForgeBR/nft-mint/internal/logging"
	"github.com/CodexForgeBR/nft-mint/internal/metadata"
	"github.com/CodexForgeBR/nft-mint/internal/notification"
	"github.com/CodexForgeBR/nft-mint/internal/retry"
)

// LowBalance is the balance below which a warning is logged.
const LowBalance = chain.LamportsPerSOL / 20

// Step names, as used in logs and in Minter.Progress.
const (
	StepBalance  = "check balance"
	StepUpload   = "upload metadata"
	StepCreate   = "create nft"
	StepSettle   = "settle"
	StepVerify   = "verify nft"
	StepTransfer = "transfer nft"
	StepRecord   = "record mint"
)

// Chain is the on-chain half of a mint.
type Chain interface {
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	CreateNFT(ctx context.Context, payer *chain.Wallet, meta chain.Metadata) (*chain.Token, error)
	FindByMint(ctx context.Context, mint, owner solana.PublicKey) (*chain.Token, error)
	Transfer(ctx context.Context, payer *chain.Wallet, tok *chain.Token, recipient solana.PublicKey) (*chain.Token, error)
}

// Recorder persists successful mints.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
}

// Notifier reports finished mints.
type Notifier interface {
	Notify(event string, s notification.Summary)
}

// Result describes a minted and transferred NFT.
type Result struct {
	// RecordAddress is the recipient's token account holding the NFT.
	RecordAddress solana.PublicKey
	Mint          solana.PublicKey
	MetadataURI   string
	// Signature is the transfer transaction.
	Signature solana.Signature
}

// Minter holds the collaborators and settings of one mint run.
// Recorder and Notifier are optional.
type Minter struct {
	Chain    Chain
	Uploader metadata.Uploader
	Recorder Recorder
	Notifier Notifier

	Payer     *chain.Wallet
	Recipient solana.PublicKey
	Input     metadata.Input
	Network   string

	// RetryCount is the attempt budget of every retried step.
	RetryCount int
	// SettleDelay is waited between creating and verifying the token.
	SettleDelay time.Duration

	// Sleep waits between retries and for the settle delay. Defaults to retry.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now stamps the metadata Date attribute. Defaults to time.Now.
	Now func() time.Time

	step      string
	completed []string
}

// Progress returns the step in flight and the steps already completed.
func (m *Minter) Progress() (current string, completed []string) {
	return m.step, append([]string(nil), m.completed...)
}

func (m *Minter) begin(step string) {
	m.step = step
	logging.Step(step)
}

func (m *Minter) done() {
	m.completed = append(m.completed, m.step)
	m.step = ""
}

func (m *Minter) retryConfig(label string) retry.Config {
	return retry.Config{
		MaxAttempts: m.RetryCount,
		Label:       label,
		Sleep:       m.Sleep,
	}
}

func (m *Minter) sleep(ctx context.Context, d time.Duration) error {
	if m.Sleep != nil {
		return m.Sleep(ctx, d)
	}
	return retry.Sleep(ctx, d)
}

func (m *Minter) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Run performs the mint. On failure the error of the failed step is returned
// and the steps already completed on chain are not rolled back.
func (m *Minter) Run(ctx context.Context) (*Result, error) {
	owner := m.Payer.PublicKey()
	logging.Info(fmt.Sprintf("Server wallet: %s", owner))

	m.begin(StepBalance)
	lamports, err := retry.Do(ctx, m.retryConfig(StepBalance), func(ctx context.Context) (uint64, error) {
		return m.Chain.Balance(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	logging.Info(fmt.Sprintf("Wallet balance: %.4f SOL", float64(lamports)/chain.LamportsPerSOL))
	if lamports < LowBalance {
		logging.Warn("Wallet balance is below 0.05 SOL; the mint may fail for insufficient funds")
	}
	m.done()

	m.begin(StepUpload)
	doc := metadata.Build(m.Input, m.now())
	uri, err := retry.Do(ctx, m.retryConfig(StepUpload), func(ctx context.Context) (string, error) {
		return m.Uploader.Upload(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	logging.Success(fmt.Sprintf("Metadata uploaded: %s", uri))
	m.done()

	m.begin(StepCreate)
	meta := chain.Metadata{Name: m.Input.Name, URI: uri}
	created, err := retry.Do(ctx, m.retryConfig(StepCreate), func(ctx context.Context) (*chain.Token, error) {
		return m.Chain.CreateNFT(ctx, m.Payer, meta)
	})
	if err != nil {
		return nil, err
	}
	logging.Success(fmt.Sprintf("NFT created with mint address: %s", created.Mint))
	m.done()

	if m.SettleDelay > 0 {
		m.begin(StepSettle)
		logging.Info(fmt.Sprintf("Waiting %s for the network to settle...", logging.FormatMillis(m.SettleDelay.Milliseconds())))
		if err := m.sleep(ctx, m.SettleDelay); err != nil {
			return nil, err
		}
		m.done()
	}

	m.begin(StepVerify)
	verified, err := retry.Do(ctx, m.retryConfig(StepVerify), func(ctx context.Context) (*chain.Token, error) {
		return m.Chain.FindByMint(ctx, created.Mint, owner)
	})
	if err != nil {
		return nil, err
	}
	logging.Success(fmt.Sprintf("NFT verified in token account %s", verified.Account))
	m.done()

	m.begin(StepTransfer)
	moved, err := retry.Do(ctx, m.retryConfig(StepTransfer), func(ctx context.Context) (*chain.Token, error) {
		return m.Chain.Transfer(ctx, m.Payer, verified, m.Recipient)
	})
	if err != nil {
		return nil, err
	}
	logging.Success(fmt.Sprintf("NFT transferred to %s", m.Recipient))
	m.done()

	res := &Result{
		RecordAddress: moved.Account,
		Mint:          moved.Mint,
		MetadataURI:   uri,
		Signature:     moved.Signature,
	}

	m.record(ctx, res)

	if m.Notifier != nil {
		m.Notifier.Notify(notification.EventMinted, notification.Summary{
			Name:      m.Input.Name,
			Recipient: m.Recipient.String(),
			Network:   m.Network,
			Mint:      res.Mint.String(),
			Detail:    res.RecordAddress.String(),
		})
	}
	return res, nil
}

// record stores res in the ledger. The mint already succeeded on chain, so a
// ledger failure is only logged.
func (m *Minter) record(ctx context.Context, res *Result) {
	if m.Recorder == nil {
		return
	}
	m.begin(StepRecord)
	entry, err := m.Recorder.Record(ctx, ledger.Entry{
		Recipient:     m.Recipient.String(),
		Player:        m.Input.Player,
		Achievement:   m.Input.Achievement,
		Name:          m.Input.Name,
		Mint:          res.Mint.String(),
		RecordAddress: res.RecordAddress.String(),
		MetadataURI:   res.MetadataURI,
		Signature:     res.Signature.String(),
		Network:       m.Network,
	})
	if err != nil {
		logging.Warn(fmt.Sprintf("Could not record mint in ledger: %v", err))
		m.step = ""
		return
	}
	logging.Debug(fmt.Sprintf("Ledger entry %s recorded", entry.ID))
	m.done()
}
