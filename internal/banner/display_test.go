package banner

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/nft-mint/internal/config"
)

func init() {
	color.NoColor = true
}

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	fn()
	return buf.String()
}

func TestPrintStartupBanner(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(c *config.Config)
		expectedText []string
		absentText   []string
	}{
		{
			name: "all fields",
			mutate: func(c *config.Config) {
				c.Player = "alice"
				c.Achievement = "First Place"
				c.LoadedEnvFile = "/tmp/.env"
			},
			expectedText: []string{
				"NFT Minting Process",
				"Network:              devnet",
				"RPC URL:              https://api.devnet.solana.com",
				"Recipient:            Recip1",
				"NFT Name:             Champion",
				"Player:               alice",
				"Achievement:          First Place",
				"Confirmation Timeout: 60000ms",
				"Retry Count:          5",
				"Env File:             /tmp/.env",
			},
		},
		{
			name:         "optional fields unset",
			mutate:       func(c *config.Config) {},
			expectedText: []string{"Player:               Not specified", "Achievement:          Not specified"},
			absentText:   []string{"Env File"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Recipient = "Recip1"
			cfg.Name = "Champion"
			tt.mutate(cfg)
			cfg.Finalize()

			output := capture(t, func() { PrintStartupBanner(cfg) })
			for _, text := range tt.expectedText {
				assert.Contains(t, output, text)
			}
			for _, text := range tt.absentText {
				assert.NotContains(t, output, text)
			}
			assert.Equal(t, 3, strings.Count(output, rule))
		})
	}
}

func TestPrintSuccessBanner(t *testing.T) {
	output := capture(t, func() {
		PrintSuccessBanner("Mint1", "Holder1", "https://s3/x.json", "Sig1", 75)
	})

	assert.Contains(t, output, "✓ NFT minted and transferred")
	assert.Contains(t, output, "Mint:        Mint1")
	assert.Contains(t, output, "Holder:      Holder1")
	assert.Contains(t, output, "Metadata:    https://s3/x.json")
	assert.Contains(t, output, "Transfer tx: Sig1")
	assert.Contains(t, output, "(75s)")
}

func TestPrintFailureBanner(t *testing.T) {
	output := capture(t, func() {
		PrintFailureBanner(errors.New("create nft: boom"), []string{"hint one", "hint two"})
	})

	assert.Contains(t, output, "✗ Error minting NFT")
	assert.Contains(t, output, "  create nft: boom")
	assert.Contains(t, output, "  hint one\n  hint two\n")
}

func TestPrintFailureBanner_NoHints(t *testing.T) {
	output := capture(t, func() { PrintFailureBanner(errors.New("boom"), nil) })
	assert.NotContains(t, output, "\n\n")
}

func TestPrintInterruptedBanner(t *testing.T) {
	output := capture(t, func() {
		PrintInterruptedBanner("transfer", []string{"upload metadata", "create nft"})
	})

	assert.Contains(t, output, "⚠ Minting interrupted")
	assert.Contains(t, output, "Step:      transfer")
	assert.Contains(t, output, "Completed: upload metadata, create nft")
}

func TestPrintInterruptedBanner_NothingCompleted(t *testing.T) {
	output := capture(t, func() { PrintInterruptedBanner("", nil) })

	assert.Contains(t, output, "Step:      Not specified")
	assert.NotContains(t, output, "Completed")
}
