// Package notify posts local notifications, preferring the desktop
// notification daemon and falling back to the structured log.
package notify

import (
	"context"
	"fmt"
	"os/exec"

	"yckf-go/internal/safebox"
)

// DesktopPoster posts notifications through notify-send.
type DesktopPoster struct {
	command string
	idgen   safebox.IDGenerator
}

// NewDesktopPoster creates a poster that shells out to the given command
// (normally notify-send).
func NewDesktopPoster(command string, idgen safebox.IDGenerator) *DesktopPoster {
	return &DesktopPoster{command: command, idgen: idgen}
}

func (p *DesktopPoster) Post(ctx context.Context, title, body, channel string) (string, error) {
	cmd := exec.CommandContext(ctx, p.command, "--category", channel, title, body)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("posting notification: %w", err)
	}
	return p.idgen.New(), nil
}

// LogPoster records notifications in the structured log when no notification
// daemon is reachable.
type LogPoster struct {
	logger safebox.Logger
	idgen  safebox.IDGenerator
}

// NewLogPoster creates a log-backed poster.
func NewLogPoster(logger safebox.Logger, idgen safebox.IDGenerator) *LogPoster {
	return &LogPoster{logger: logger, idgen: idgen}
}

func (p *LogPoster) Post(_ context.Context, title, body, channel string) (string, error) {
	id := p.idgen.New()
	p.logger.Info("notification", "id", id, "channel", channel, "title", title, "body", body)
	return id, nil
}

// NewPoster checks once whether a notification daemon client exists on PATH
// and picks the matching strategy.
func NewPoster(logger safebox.Logger, idgen safebox.IDGenerator) safebox.NotificationPoster {
	if path, err := exec.LookPath("notify-send"); err == nil {
		return NewDesktopPoster(path, idgen)
	}
	return NewLogPoster(logger, idgen)
}

// Compile-time checks that both posters implement the NotificationPoster interface
var (
	_ safebox.NotificationPoster = (*DesktopPoster)(nil)
	_ safebox.NotificationPoster = (*LogPoster)(nil)
)
