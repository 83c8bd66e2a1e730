// Package opener hands URLs to the desktop environment's default handler.
package opener

import (
	"context"
	"fmt"
	"os/exec"
)

// Opener launches a URL in the system's default handler for its scheme.
type Opener interface {
	// Available reports whether a handler command exists on this system.
	Available() bool
	// Open launches the URL. It returns once the handler has been started.
	Open(ctx context.Context, url string) error
}

// ExecOpener shells out to the platform's URL opener (xdg-open or open).
type ExecOpener struct {
	command string
}

// NewExecOpener locates a URL opener on PATH. The capability is checked once
// here; callers branch on Available instead of probing per call.
func NewExecOpener() *ExecOpener {
	for _, candidate := range []string{"xdg-open", "open"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return &ExecOpener{command: candidate}
		}
	}
	return &ExecOpener{}
}

func (o *ExecOpener) Available() bool { return o.command != "" }

func (o *ExecOpener) Open(ctx context.Context, url string) error {
	if o.command == "" {
		return fmt.Errorf("no URL opener available")
	}
	cmd := exec.CommandContext(ctx, o.command, url)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", o.command, err)
	}
	return nil
}
