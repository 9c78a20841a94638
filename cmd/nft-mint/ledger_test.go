package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/nft-mint/internal/ledger"
)

func TestWriteEntries(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := writeEntries(&buf, []ledger.Entry{
		{Name: "Champion", Player: "alice", Achievement: "first", Network: "devnet", Mint: "Mint1", Recipient: "Recip1", MintedAt: at},
		{Name: "Runner-up", Network: "devnet", Mint: "Mint2", Recipient: "Recip2", MintedAt: at},
	})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "MINTED"))
	assert.Contains(t, lines[1], "Champion")
	assert.Contains(t, lines[1], "Mint1")
	assert.Contains(t, lines[2], "Runner-up")
	assert.Contains(t, lines[2], " - ")
}

func TestWriteEntry(t *testing.T) {
	var buf bytes.Buffer
	writeEntry(&buf, ledger.Entry{
		ID:            "id-1",
		Name:          "Champion",
		Mint:          "Mint1",
		RecordAddress: "Holder1",
		Recipient:     "Recip1",
		Network:       "devnet",
		MintedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})

	out := buf.String()
	assert.Contains(t, out, "ID:           id-1")
	assert.Contains(t, out, "Token record: Holder1")
	assert.Contains(t, out, "Player:       -")
	assert.Contains(t, out, "Minted at:    2024-05-01T12:00:00Z")
}

func TestEnvCandidates(t *testing.T) {
	c := envCandidates()
	assert.Equal(t, ".env", c[0])
	if assert.Len(t, c, 2) {
		assert.True(t, strings.HasSuffix(c[1], ".env"))
	}
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "Interrupted", (&exitError{code: 130}).Error())
}
