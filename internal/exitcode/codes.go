// Package exitcode defines named exit codes for the nft-mint CLI.
//
// The calling process only distinguishes success from failure; Interrupted
// follows the shell convention for SIGINT.
package exitcode

const (
	Success     = 0   // NFT minted and transferred, SUCCESS line printed
	Error       = 1   // Invalid configuration or unrecoverable mint failure
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
