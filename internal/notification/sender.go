// Package notification reports finished mints through the openclaw CLI.
package notification

import (
	"context"
	"os/exec"
	"time"
)

// sendTimeout bounds a single openclaw invocation.
const sendTimeout = 10 * time.Second

// Sender delivers events to a chat through openclaw.
type Sender struct {
	Webhook string
	Channel string
	ChatID  string

	// run executes the command. Defaults to exec.CommandContext(...).Run.
	run func(ctx context.Context, name string, args ...string) error
}

// NewSender returns a Sender. It is a no-op when chatID is empty.
func NewSender(webhook, channel, chatID string) *Sender {
	return &Sender{Webhook: webhook, Channel: channel, ChatID: chatID, run: runCommand}
}

// Enabled reports whether a chat ID is configured.
func (s *Sender) Enabled() bool {
	return s != nil && s.ChatID != ""
}

// Notify formats event and sends it.
// Fire-and-forget: silent on failure, never blocks longer than sendTimeout.
func (s *Sender) Notify(event string, summary Summary) {
	if !s.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_ = s.run(ctx, "openclaw", "message", "send",
		"--webhook", s.Webhook,
		"--channel", s.Channel,
		"--chat-id", s.ChatID,
		"--message", FormatEvent(event, summary),
	)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
