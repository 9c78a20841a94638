// Package diagnose turns a failed mint into remediation hints for the operator.
package diagnose

import (
	"context"
	"errors"

	"github.com/CodexForgeBR/nft-mint/internal/chain"
)

// FaucetURL is suggested when the server wallet runs out of SOL.
const FaucetURL = "https://solfaucet.com/"

// Lines returns the hint lines for err, most important first. It never
// returns an empty slice for a non-nil err.
func Lines(err error) []string {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return []string{"Minting was interrupted. Any transaction already confirmed stays on chain."}
	}

	switch chain.KindOf(err) {
	case chain.KindInsufficientFunds:
		return []string{
			"The server wallet does not have enough SOL to pay for the transaction.",
			"Please add more SOL to the wallet using the Solana Faucet: " + FaucetURL,
		}
	case chain.KindNetwork:
		return []string{"Network error. Please check your internet connection and the RPC URL."}
	case chain.KindTimeout:
		return []string{
			"Request timed out. The Solana network might be congested or the RPC endpoint is slow.",
			"Consider raising --confirmation-timeout or --retry-count.",
		}
	case chain.KindAccountNotFound:
		return []string{
			"Account not found error. This usually happens when the NFT was not properly created or confirmed on the blockchain.",
			"Possible solutions:",
			"1. Make sure your server wallet has enough SOL (at least 0.05 SOL)",
			"2. Try again later as Solana DevNet might be experiencing delays",
			"3. Check if the RPC endpoint is responsive",
		}
	case chain.KindMissingValue:
		return []string{
			"A required value was missing from a blockchain response. This usually happens when there is an issue with the token owner or wallet configuration.",
			"Possible solutions:",
			"1. Make sure your server wallet private key is valid",
			"2. Check if the recipient wallet address is valid",
			"3. Raise --settle-delay so the node sees the new mint before it is verified",
		}
	case chain.KindIncompatible:
		return []string{
			"The RPC node or an on-chain account did not match the expected interface.",
			"Possible solutions:",
			"1. Point --rpc-url at a node that supports the current JSON-RPC API",
			"2. Check that the mint address belongs to the SPL Token program",
		}
	case chain.KindInvalidInput:
		return []string{"Invalid input. Check the private key, recipient address and metadata values."}
	default:
		return []string{"Unexpected error. Re-run with --verbose for attempt-level details."}
	}
}
