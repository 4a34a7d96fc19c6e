// Package notify delivers alert text to people, fire-and-forget.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/okian/dinger/pkg/logger"
)

// Notifier delivers one message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// CommandNotifier runs an external program with its fixed arguments
// followed by the message, e.g. osascript sendMessage.applescript <msg>.
type CommandNotifier struct {
	command string
	args    []string
}

// NewCommandNotifier creates a notifier running command.
func NewCommandNotifier(command string, args ...string) (*CommandNotifier, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrNoCommand
	}
	return &CommandNotifier{command: command, args: append([]string(nil), args...)}, nil
}

// Notify runs the command and waits for it.
func (n *CommandNotifier) Notify(ctx context.Context, message string) error {
	args := append(append([]string(nil), n.args...), message)
	cmd := exec.CommandContext(ctx, n.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w: %s", ErrSendFailed, n.command, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// LogNotifier writes messages to the log. It is used when no command is
// configured.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a notifier that logs through l, or the global
// logger when l is nil.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Get().Named("notify")
	}
	return &LogNotifier{logger: l}
}

// Notify logs message.
func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.logger.Info(ctx, "notification", logger.String("message", message))
	return nil
}

// New picks a CommandNotifier for a non-empty command and a LogNotifier
// otherwise.
func New(command string, args []string, l logger.Logger) Notifier {
	if c, err := NewCommandNotifier(command, args...); err == nil {
		return c
	}
	return NewLogNotifier(l)
}
