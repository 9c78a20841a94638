package chain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Kind tags a chain failure so callers can pick a diagnostic without
// inspecting error text.
type Kind int

const (
	KindUnknown Kind = iota
	KindInsufficientFunds
	KindNetwork
	KindTimeout
	KindAccountNotFound
	// KindMissingValue: a result the SDK should have produced is absent.
	KindMissingValue
	// KindIncompatible: the node or an on-chain account does not speak the
	// expected interface (unknown RPC method, unexpected account layout).
	KindIncompatible
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientFunds:
		return "insufficient funds"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAccountNotFound:
		return "account not found"
	case KindMissingValue:
		return "missing value"
	case KindIncompatible:
		return "incompatible"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every Client operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrAccountNotFound is returned by Node.Account when the address holds no account.
var ErrAccountNotFound = errors.New("account not found")

// JSON-RPC error codes the classifier understands.
const (
	codeMethodNotFound           = -32601
	codePreflightFailure         = -32002
	codeBlockNotAvailable        = -32004
	codeNodeUnhealthy            = -32005
	codeSlotSkipped              = -32007
	codeLongTermStorageSlot      = -32009
	codeBlockStatusNotAvailable  = -32014
	codeUnsupportedTxVersion     = -32015
	codeMinContextSlotNotReached = -32016
)

// KindOf returns the Kind of err, or KindUnknown when err is not a chain error.
func KindOf(err error) Kind {
	var chainErr *Error
	if errors.As(err, &chainErr) {
		return chainErr.Kind
	}
	return KindUnknown
}

// Classify wraps err in an *Error tagged by what the SDK reported. An err
// that already is an *Error is returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var chainErr *Error
	if errors.As(err, &chainErr) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, ErrAccountNotFound) || errors.Is(err, rpc.ErrNotFound) {
		return KindAccountNotFound
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeMethodNotFound, codeUnsupportedTxVersion:
			return KindIncompatible
		case codeBlockNotAvailable, codeNodeUnhealthy, codeSlotSkipped, codeLongTermStorageSlot,
			codeBlockStatusNotAvailable, codeMinContextSlotNotReached:
			return KindNetwork
		case codePreflightFailure:
			if simulationOutOfFunds(rpcErr) {
				return KindInsufficientFunds
			}
		}
		return KindUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	return KindUnknown
}

// lamportShortfalls are the simulation messages and log lines the runtime and
// the system program emit when an account cannot pay in SOL. The token
// program's "Error: insufficient funds" is about token balances and is not
// listed.
var lamportShortfalls = []string{
	"insufficient lamports",
	"no record of a prior credit",
	"insufficient funds for fee",
	"insufficient funds for rent",
}

// simulationOutOfFunds reports whether a preflight simulation failed because
// the fee payer could not cover the transaction. The node only reports this
// in the simulation message and logs.
func simulationOutOfFunds(rpcErr *jsonrpc.RPCError) bool {
	text := strings.ToLower(rpcErr.Message + " " + fmt.Sprint(rpcErr.Data))
	for _, s := range lamportShortfalls {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
