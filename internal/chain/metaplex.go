package chain

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Token Metadata instruction discriminators.
const (
	instructionCreateMasterEditionV3   uint8 = 17
	instructionCreateMetadataAccountV3 uint8 = 33
)

// metadataKeyV1 tags a Token Metadata account holding Metadata.
const metadataKeyV1 uint8 = 4

// Token Metadata field limits, in bytes.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// Metadata is the on-chain Token Metadata attached to a new NFT. URI points
// at the uploaded JSON document.
type Metadata struct {
	Name   string
	Symbol string
	URI    string
}

func (m Metadata) validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("name must not be empty")
	case len(m.Name) > MaxNameLength:
		return fmt.Errorf("name is %d bytes, limit is %d", len(m.Name), MaxNameLength)
	case len(m.Symbol) > MaxSymbolLength:
		return fmt.Errorf("symbol is %d bytes, limit is %d", len(m.Symbol), MaxSymbolLength)
	case m.URI == "":
		return fmt.Errorf("metadata uri must not be empty")
	case len(m.URI) > MaxURILength:
		return fmt.Errorf("metadata uri is %d bytes, limit is %d", len(m.URI), MaxURILength)
	}
	return nil
}

// MetadataAddress derives the Token Metadata account of mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindTokenMetadataAddress(mint)
	return addr, err
}

// EditionAddress derives the master edition account of mint.
func EditionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		solana.TokenMetadataProgramID[:],
		mint[:],
		[]byte("edition"),
	}, solana.TokenMetadataProgramID)
	return addr, err
}

// creator is a royalty split entry. The payer is the only creator.
type creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// createMetadataArgs is the CreateMetadataAccountV3 payload. Royalties are
// zero, collection and uses are unset and the account is immutable.
type createMetadataArgs struct {
	Data     Metadata
	Creators []creator
}

func (a createMetadataArgs) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(instructionCreateMetadataAccountV3); err != nil {
		return err
	}
	for _, s := range []string{a.Data.Name, a.Data.Symbol, a.Data.URI} {
		if err := enc.WriteString(s); err != nil {
			return err
		}
	}
	// seller fee basis points
	if err := enc.WriteUint16(0, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteOption(len(a.Creators) > 0); err != nil {
		return err
	}
	if len(a.Creators) > 0 {
		if err := enc.WriteUint32(uint32(len(a.Creators)), bin.LE); err != nil {
			return err
		}
		for _, c := range a.Creators {
			if err := enc.WriteBytes(c.Address[:], false); err != nil {
				return err
			}
			if err := enc.WriteBool(c.Verified); err != nil {
				return err
			}
			if err := enc.WriteUint8(c.Share); err != nil {
				return err
			}
		}
	}
	// collection, uses, is_mutable, collection_details
	for _, flag := range []bool{false, false, false, false} {
		if err := enc.WriteBool(flag); err != nil {
			return err
		}
	}
	return nil
}

// createMasterEditionArgs is the CreateMasterEditionV3 payload.
type createMasterEditionArgs struct {
	MaxSupply uint64
}

func (a createMasterEditionArgs) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(instructionCreateMasterEditionV3); err != nil {
		return err
	}
	if err := enc.WriteOption(true); err != nil {
		return err
	}
	return enc.WriteUint64(a.MaxSupply, bin.LE)
}

func borshBytes(m bin.BinaryMarshaler) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// newCreateMetadataInstruction attaches meta to mint. authority is the mint
// authority, the update authority, the payer and the sole verified creator.
func newCreateMetadataInstruction(meta Metadata, metadataAddr, mint, authority solana.PublicKey) (solana.Instruction, error) {
	data, err := borshBytes(createMetadataArgs{
		Data:     meta,
		Creators: []creator{{Address: authority, Verified: true, Share: 100}},
	})
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(solana.TokenMetadataProgramID, solana.AccountMetaSlice{
		solana.Meta(metadataAddr).WRITE(),
		solana.Meta(mint),
		solana.Meta(authority).SIGNER(),
		solana.Meta(authority).WRITE().SIGNER(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarRentPubkey),
	}, data), nil
}

// newCreateMasterEditionInstruction creates the master edition of mint. The
// edition account takes over the mint and freeze authorities, which keeps the
// supply at one.
func newCreateMasterEditionInstruction(maxSupply uint64, editionAddr, mint, metadataAddr, authority solana.PublicKey) (solana.Instruction, error) {
	data, err := borshBytes(createMasterEditionArgs{MaxSupply: maxSupply})
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(solana.TokenMetadataProgramID, solana.AccountMetaSlice{
		solana.Meta(editionAddr).WRITE(),
		solana.Meta(mint).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(authority).WRITE().SIGNER(),
		solana.Meta(metadataAddr).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarRentPubkey),
	}, data), nil
}
