package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Account is the subset of on-chain account state the client inspects.
type Account struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// SignatureStatus reports how far a submitted transaction has progressed.
// A nil status from Node.SignatureStatus means the node has not seen it yet.
type SignatureStatus struct {
	Confirmed bool
	Err       any
}

// Node is the RPC surface the client needs. RPCNode implements it over the
// Solana JSON-RPC API.
type Node interface {
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	RentExemption(ctx context.Context, size uint64) (uint64, error)
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error)
	Account(ctx context.Context, address solana.PublicKey) (*Account, error)
}

// RPCNode talks to a Solana RPC endpoint at "confirmed" commitment.
type RPCNode struct {
	rpc *rpc.Client
}

// NewRPCNode connects to the given RPC endpoint URL.
func NewRPCNode(endpoint string) *RPCNode {
	return &RPCNode{rpc: rpc.New(endpoint)}
}

func (n *RPCNode) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := n.rpc.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	return out.Value, nil
}

func (n *RPCNode) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := n.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, err
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, errors.New("node returned no blockhash")
	}
	return out.Value.Blockhash, nil
}

func (n *RPCNode) RentExemption(ctx context.Context, size uint64) (uint64, error) {
	return n.rpc.GetMinimumBalanceForRentExemption(ctx, size, rpc.CommitmentConfirmed)
}

func (n *RPCNode) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return n.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
}

func (n *RPCNode) SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	out, err := n.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return nil, nil
	}
	st := out.Value[0]
	return &SignatureStatus{
		Confirmed: st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			st.ConfirmationStatus == rpc.ConfirmationStatusFinalized,
		Err: st.Err,
	}, nil
}

func (n *RPCNode) Account(ctx context.Context, address solana.PublicKey) (*Account, error) {
	out, err := n.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", address, ErrAccountNotFound)
		}
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%s: %w", address, ErrAccountNotFound)
	}
	acc := &Account{
		Owner:    out.Value.Owner,
		Lamports: out.Value.Lamports,
	}
	if out.Value.Data != nil {
		acc.Data = out.Value.Data.GetBinary()
	}
	return acc, nil
}
