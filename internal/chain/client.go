// Package chain mints, verifies and transfers Metaplex NFTs on Solana.
//
// Each Client method performs one on-chain step and waits for "confirmed"
// commitment. Failures are returned as *Error tagged with a Kind.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// mintAccountSize is the size of an SPL token mint account.
const mintAccountSize = 82

// editionMaxSupply caps the prints of a master edition.
const editionMaxSupply = 1

// LamportsPerSOL converts SOL amounts to lamports.
const LamportsPerSOL = 1_000_000_000

// Token identifies a minted NFT and the token account currently holding it.
type Token struct {
	Mint      solana.PublicKey
	Metadata  solana.PublicKey
	Account   solana.PublicKey
	Owner     solana.PublicKey
	Signature solana.Signature
}

// Options tunes transaction confirmation.
type Options struct {
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
}

// Client performs the mint, verify and transfer steps against a Node.
type Client struct {
	node Node
	opts Options
}

// NewClient returns a Client. Zero options fall back to a 60s confirmation
// timeout polled every second.
func NewClient(node Node, opts Options) *Client {
	if opts.ConfirmationTimeout <= 0 {
		opts.ConfirmationTimeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Client{node: node, opts: opts}
}

// Dial returns a Client connected to a JSON-RPC endpoint.
func Dial(endpoint string, opts Options) *Client {
	return NewClient(NewRPCNode(endpoint), opts)
}

// Balance returns the lamport balance of owner.
func (c *Client) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	lamports, err := c.node.Balance(ctx, owner)
	if err != nil {
		return 0, Classify("get balance", err)
	}
	return lamports, nil
}

// CreateNFT creates a new mint with zero decimals, mints exactly one token
// into the payer's associated token account, attaches meta as an immutable
// Token Metadata account and creates the master edition. The master edition
// takes over the mint authority, so the supply stays at one.
func (c *Client) CreateNFT(ctx context.Context, payer *Wallet, meta Metadata) (*Token, error) {
	const op = "create nft"

	if err := meta.validate(); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: op, Err: err}
	}

	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Op: op, Err: fmt.Errorf("generate mint keypair: %w", err)}
	}
	mint := mintKey.PublicKey()
	owner := payer.PublicKey()

	rent, err := c.node.RentExemption(ctx, mintAccountSize)
	if err != nil {
		return nil, Classify(op, err)
	}

	holder, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive token account: %w", err)}
	}
	metadataAddr, err := MetadataAddress(mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive metadata account: %w", err)}
	}
	editionAddr, err := EditionAddress(mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive edition account: %w", err)}
	}

	createMetadata, err := newCreateMetadataInstruction(meta, metadataAddr, mint, owner)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf("encode metadata: %w", err)}
	}
	createEdition, err := newCreateMasterEditionInstruction(editionMaxSupply, editionAddr, mint, metadataAddr, owner)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf("encode master edition: %w", err)}
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(rent, mintAccountSize, solana.TokenProgramID, owner, mint).Build(),
		token.NewInitializeMintInstruction(0, owner, owner, mint, solana.SysVarRentPubkey).Build(),
		associatedtokenaccount.NewCreateInstruction(owner, owner, mint).Build(),
		token.NewMintToInstruction(1, mint, holder, owner, nil).Build(),
		createMetadata,
		createEdition,
	}

	sig, err := c.sendAndConfirm(ctx, op, instructions, payer.key, mintKey)
	if err != nil {
		return nil, err
	}

	return &Token{Mint: mint, Metadata: metadataAddr, Account: holder, Owner: owner, Signature: sig}, nil
}

// FindByMint verifies that mint is an initialized single-supply mint with a
// Token Metadata account, and that owner's associated token account holds
// the token.
func (c *Client) FindByMint(ctx context.Context, mint, owner solana.PublicKey) (*Token, error) {
	const op = "find by mint"

	acc, err := c.node.Account(ctx, mint)
	if err != nil {
		return nil, Classify(op, err)
	}
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return nil, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("mint %s is owned by %s, not the token program", mint, acc.Owner)}
	}

	var m token.Mint
	if err := bin.NewBinDecoder(acc.Data).Decode(&m); err != nil {
		return nil, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("decode mint %s: %w", mint, err)}
	}
	if !m.IsInitialized {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("mint %s is not initialized", mint)}
	}
	if m.Decimals != 0 || m.Supply != 1 {
		return nil, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("mint %s is not non-fungible (supply %d, decimals %d)", mint, m.Supply, m.Decimals)}
	}

	metadataAddr, err := c.findMetadata(ctx, op, mint)
	if err != nil {
		return nil, err
	}

	holder, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive token account: %w", err)}
	}

	hacc, err := c.node.Account(ctx, holder)
	if err != nil {
		return nil, Classify(op, err)
	}
	var ta token.Account
	if err := bin.NewBinDecoder(hacc.Data).Decode(&ta); err != nil {
		return nil, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("decode token account %s: %w", holder, err)}
	}
	if !ta.Mint.Equals(mint) || !ta.Owner.Equals(owner) || ta.Amount != 1 {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("token account %s does not hold %s", holder, mint)}
	}

	return &Token{Mint: mint, Metadata: metadataAddr, Account: holder, Owner: owner}, nil
}

// findMetadata checks that the Token Metadata account of mint exists and
// belongs to mint.
func (c *Client) findMetadata(ctx context.Context, op string, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, err := MetadataAddress(mint)
	if err != nil {
		return solana.PublicKey{}, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive metadata account: %w", err)}
	}

	acc, err := c.node.Account(ctx, addr)
	if err != nil {
		return solana.PublicKey{}, Classify(op, err)
	}
	if !acc.Owner.Equals(solana.TokenMetadataProgramID) {
		return solana.PublicKey{}, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("metadata %s is owned by %s, not the token metadata program", addr, acc.Owner)}
	}
	// key (1) | update authority (32) | mint (32)
	if len(acc.Data) < 65 || acc.Data[0] != metadataKeyV1 {
		return solana.PublicKey{}, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("account %s is not token metadata", addr)}
	}
	if !solana.PublicKeyFromBytes(acc.Data[33:65]).Equals(mint) {
		return solana.PublicKey{}, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("metadata %s describes another mint", addr)}
	}
	return addr, nil
}

// Transfer moves the token from the payer to recipient, creating the
// recipient's associated token account when it does not exist yet. The
// returned Token describes the recipient's holding.
func (c *Client) Transfer(ctx context.Context, payer *Wallet, tok *Token, recipient solana.PublicKey) (*Token, error) {
	const op = "transfer"

	if tok == nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: errors.New("no token to transfer")}
	}
	from := payer.PublicKey()

	source, _, err := solana.FindAssociatedTokenAddress(from, tok.Mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive source account: %w", err)}
	}
	dest, _, err := solana.FindAssociatedTokenAddress(recipient, tok.Mint)
	if err != nil {
		return nil, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("derive destination account: %w", err)}
	}

	var instructions []solana.Instruction
	if _, err := c.node.Account(ctx, dest); err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, Classify(op, err)
		}
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(from, recipient, tok.Mint).Build())
	}
	instructions = append(instructions, token.NewTransferCheckedInstruction(1, 0, source, tok.Mint, dest, from, nil).Build())

	sig, err := c.sendAndConfirm(ctx, op, instructions, payer.key)
	if err != nil {
		return nil, err
	}
	return &Token{Mint: tok.Mint, Metadata: tok.Metadata, Account: dest, Owner: recipient, Signature: sig}, nil
}

// sendAndConfirm signs with signers (the first one pays), submits, and
// waits until the transaction reaches "confirmed" or the timeout elapses.
func (c *Client) sendAndConfirm(ctx context.Context, op string, instructions []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	blockhash, err := c.node.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, Classify(op, err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(signers[0].PublicKey()))
	if err != nil {
		return solana.Signature{}, &Error{Kind: KindIncompatible, Op: op, Err: fmt.Errorf("build transaction: %w", err)}
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	}); err != nil {
		return solana.Signature{}, &Error{Kind: KindMissingValue, Op: op, Err: fmt.Errorf("sign transaction: %w", err)}
	}

	sig, err := c.node.Send(ctx, tx)
	if err != nil {
		return solana.Signature{}, Classify(op, err)
	}

	if err := c.waitForConfirmation(ctx, op, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *Client) waitForConfirmation(ctx context.Context, op string, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConfirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		status, err := c.node.SignatureStatus(ctx, sig)
		if err != nil && ctx.Err() == nil {
			return Classify(op, err)
		}
		if status != nil {
			if status.Err != nil {
				return &Error{Kind: KindUnknown, Op: op, Err: fmt.Errorf("transaction %s failed: %v", sig, status.Err)}
			}
			if status.Confirmed {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &Error{Kind: KindTimeout, Op: op, Err: fmt.Errorf("transaction %s not confirmed within %s: %w", sig, c.opts.ConfirmationTimeout, ctx.Err())}
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
