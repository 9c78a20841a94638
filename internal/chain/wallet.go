package chain

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Wallet is the server keypair that pays for and signs every transaction.
type Wallet struct {
	key solana.PrivateKey
}

// LoadWallet decodes a base58 encoded 64-byte secret key.
func LoadWallet(secret string) (*Wallet, error) {
	key, err := solana.PrivateKeyFromBase58(strings.TrimSpace(secret))
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Op: "load wallet", Err: err}
	}
	if len(key) != 64 {
		return nil, &Error{Kind: KindInvalidInput, Op: "load wallet", Err: errors.New("secret key must decode to 64 bytes")}
	}
	return &Wallet{key: key}, nil
}

// NewWallet wraps an existing private key.
func NewWallet(key solana.PrivateKey) *Wallet {
	return &Wallet{key: key}
}

// PublicKey returns the wallet address.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// ParseAddress parses a base58 account address.
func ParseAddress(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(s))
	if err != nil {
		return solana.PublicKey{}, &Error{Kind: KindInvalidInput, Op: "parse address", Err: err}
	}
	return key, nil
}
