package chain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), KindTimeout},
		{"missing account", ErrAccountNotFound, KindAccountNotFound},
		{"rpc not found", rpc.ErrNotFound, KindAccountNotFound},
		{"dial refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindNetwork},
		{"dns", &net.DNSError{Err: "no such host", Name: "rpc.invalid", IsTimeout: false}, KindNetwork},
		{"dns timeout", &net.DNSError{Err: "timeout", Name: "rpc.invalid", IsTimeout: true}, KindTimeout},
		{"method not found", &jsonrpc.RPCError{Code: -32601, Message: "Method not found"}, KindIncompatible},
		{"node unhealthy", &jsonrpc.RPCError{Code: -32005, Message: "Node is behind"}, KindNetwork},
		{"unsupported tx version", &jsonrpc.RPCError{Code: -32015, Message: "Transaction version (0) is not supported"}, KindIncompatible},
		{"signature verification", &jsonrpc.RPCError{Code: -32003, Message: "Transaction signature verification failure"}, KindUnknown},
		{
			"simulation out of funds",
			&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit."},
			KindInsufficientFunds,
		},
		{
			"simulation insufficient lamports in logs",
			&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed", Data: map[string]any{"logs": []string{"Transfer: insufficient lamports 10, need 2039280"}}},
			KindInsufficientFunds,
		},
		{
			"simulation rent shortfall",
			&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: Transaction results in an account (1) with insufficient funds for rent"},
			KindInsufficientFunds,
		},
		{
			"token account empty is not a lamport shortfall",
			&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1", Data: map[string]any{"logs": []string{
				"Program TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA invoke [1]",
				"Program log: Instruction: TransferChecked",
				"Program log: Error: insufficient funds",
			}}},
			KindUnknown,
		},
		{"other simulation failure", &jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed: custom program error"}, KindUnknown},
		{"plain error", errors.New("something odd"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("op", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err), "kind %s", KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify("op", nil))
}

func TestClassifyKeepsExistingChainError(t *testing.T) {
	orig := &Error{Kind: KindInsufficientFunds, Op: "inner", Err: errors.New("broke")}
	wrapped := fmt.Errorf("outer: %w", orig)

	got := Classify("outer op", wrapped)
	assert.Same(t, wrapped, got)
	assert.Equal(t, KindInsufficientFunds, KindOf(got))
}

func TestKindOfNonChainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindNetwork, Op: "get balance", Err: errors.New("connection reset")}
	assert.Equal(t, "get balance: connection reset", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "insufficient funds", KindInsufficientFunds.String())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "account not found", KindAccountNotFound.String())
	assert.Equal(t, "missing value", KindMissingValue.String())
	assert.Equal(t, "incompatible", KindIncompatible.String())
	assert.Equal(t, "invalid input", KindInvalidInput.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
