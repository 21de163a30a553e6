package trigger

import (
	"context"
	"errors"
	"testing"
)

func TestNewCommandEmpty(t *testing.T) {
	if c := NewCommand(""); c != nil {
		t.Errorf("expected nil for empty command line, got %v", c)
	}
	if c := NewCommand("   "); c != nil {
		t.Errorf("expected nil for blank command line, got %v", c)
	}
}

func TestCommandFire(t *testing.T) {
	c := NewCommand("true")
	if c == nil {
		t.Fatal("NewCommand returned nil")
	}
	if err := c.Fire(context.Background()); err != nil {
		t.Errorf("Fire: %v", err)
	}
}

func TestCommandFireFailure(t *testing.T) {
	c := NewCommand("false")
	err := c.Fire(context.Background())
	if !errors.Is(err, ErrTrigger) {
		t.Errorf("expected ErrTrigger, got %v", err)
	}
}

func TestCommandFireMissingBinary(t *testing.T) {
	c := NewCommand("definitely-not-a-real-binary-4242")
	err := c.Fire(context.Background())
	if !errors.Is(err, ErrTrigger) {
		t.Errorf("expected ErrTrigger, got %v", err)
	}
}

func TestCommandName(t *testing.T) {
	c := NewCommand("loginctl  lock-session")
	if c.Name() != "command: loginctl lock-session" {
		t.Errorf("Name: got %q", c.Name())
	}
}
