package trigger

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 10 * time.Second

// Command runs an external program as the trigger action, e.g.
// "loginctl lock-session" or "pmset displaysleepnow".
type Command struct {
	argv []string
}

// NewCommand builds a command action from a whitespace-separated command
// line. Returns nil for an empty command line.
func NewCommand(cmdline string) *Command {
	argv := strings.Fields(cmdline)
	if len(argv) == 0 {
		return nil
	}
	return &Command{argv: argv}
}

// Name identifies the action.
func (c *Command) Name() string { return "command: " + strings.Join(c.argv, " ") }

// Fire runs the command and waits for it to finish.
func (c *Command) Fire(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrTrigger, c.argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
