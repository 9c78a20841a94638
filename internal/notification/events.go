package notification

import "fmt"

// Event types sent at the end of a run.
const (
	EventMinted      = "minted"
	EventFailed      = "failed"
	EventInterrupted = "interrupted"
)

// Summary describes the run being reported.
type Summary struct {
	Name      string
	Recipient string
	Network   string
	Mint      string
	// Detail is the record address for minted events and the error text otherwise.
	Detail   string
	ExitCode int
}

// FormatEvent creates a notification message for the given event.
func FormatEvent(event string, s Summary) string {
	switch event {
	case EventMinted:
		return fmt.Sprintf("✅ %q minted on %s for %s (mint %s, holder %s)", s.Name, s.Network, s.Recipient, s.Mint, s.Detail)
	case EventFailed:
		return fmt.Sprintf("❌ %q failed on %s for %s: %s (exit %d)", s.Name, s.Network, s.Recipient, s.Detail, s.ExitCode)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ %q interrupted on %s for %s (exit %d)", s.Name, s.Network, s.Recipient, s.ExitCode)
	default:
		return fmt.Sprintf("ℹ️ %q on %s event: %s (exit %d)", s.Name, s.Network, event, s.ExitCode)
	}
}
