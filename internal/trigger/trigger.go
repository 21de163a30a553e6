// Package trigger provides the side-effecting actions fired when a jump is
// detected: locking the screen over D-Bus, or running an arbitrary command.
package trigger

import (
	"context"
	"errors"
)

// ErrTrigger marks a failed trigger action. Callers log it and move on;
// the jump was already detected, so a failed action never resurrects the
// sampling loop.
var ErrTrigger = errors.New("trigger action failed")

// Action is a side effect fired at most once per process lifetime.
type Action interface {
	// Name identifies the action for diagnostics.
	Name() string
	// Fire performs the action.
	Fire(ctx context.Context) error
}
