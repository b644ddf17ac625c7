package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourusername/partygrid/internal/client"
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/models"
	"github.com/yourusername/partygrid/internal/reactor"
)

const (
	kwinService    = "org.kde.KWin"
	kwinPath       = "/Scripting"
	kwinInterface  = "org.kde.kwin.Scripting"
	kwinPluginName = "splitscreen"

	kwinScript         = "splitscreen_kwin.js"
	kwinScriptVertical = "splitscreen_kwin_vertical.js"
)

// KWinScriptName returns the tiling script for the number of players
func KWinScriptName(players int, vertical bool) string {
	if players == 2 && vertical {
		return kwinScriptVertical
	}
	return kwinScript
}

func (l *Launcher) qdbus(ctx context.Context, method string, args ...string) error {
	argv := append([]string{kwinService, kwinPath, kwinInterface + "." + method}, args...)
	if _, err := l.deps.Runner.Capture(ctx, "qdbus", argv...); err != nil {
		return perrors.ToolUnavailable("kwin "+method, err)
	}
	return nil
}

// launchFixedQuadrant runs the command in the foreground, wrapped by the
// KWin tiling script when enabled
func (l *Launcher) launchFixedQuadrant(ctx context.Context, log zerolog.Logger, p *Plan) error {
	if !l.cfg.KWinScript {
		return l.deps.Runner.Shell(ctx, p.Command)
	}

	script := filepath.Join(l.paths.Resources, KWinScriptName(p.Registry.Len(), l.cfg.VerticalTwoPlayer))
	if err := l.qdbus(ctx, "loadScript", script, kwinPluginName); err != nil {
		return err
	}
	defer func() {
		// The session context may already be cancelled here
		if err := l.qdbus(context.Background(), "unloadScript", kwinPluginName); err != nil {
			log.Warn().Err(err).Msg("Failed to unload KWin script")
		}
	}()
	if err := l.qdbus(ctx, "start"); err != nil {
		return err
	}
	log.Info().Str("script", script).Msg("Loaded KWin tiling script")

	return l.deps.Runner.Shell(ctx, p.Command)
}

// launchGrid starts a nested sway, submits the command through its IPC socket
// and places windows into rows until sway exits
func (l *Launcher) launchGrid(ctx context.Context, log zerolog.Logger, p *Plan) (err error) {
	if _, err := l.deps.Runner.LookPath("sway"); err != nil {
		return err
	}
	version, err := l.deps.Runner.Capture(ctx, "sway", "-v")
	if err != nil {
		return perrors.ToolUnavailable("sway", err)
	}
	log.Debug().Str("version", strings.TrimSpace(version)).Msg("Found sway")

	before, err := l.deps.Sockets.Snapshot()
	if err != nil {
		return err
	}

	proc, err := l.deps.Runner.Start("sway", "-c", l.cfg.SwayConfigPath(l.paths))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if termErr := proc.Terminate(); termErr != nil {
				log.Warn().Err(termErr).Msg("Failed to stop sway")
			}
		}
	}()

	// Stop waiting for the socket if sway dies first
	discoverCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-proc.Done():
			cancel()
		case <-discoverCtx.Done():
		}
	}()

	socket, err := l.deps.Sockets.WaitForNew(discoverCtx, before)
	if err != nil {
		if ctx.Err() == nil && discoverCtx.Err() != nil {
			return perrors.ToolUnavailable("sway", fmt.Errorf("sway exited before creating its socket"))
		}
		return err
	}
	log.Info().Str("socket", socket).Msg("Sway socket found")

	conn, err := l.deps.Dial(socket)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Subscribe before starting the games so no window is missed
	stream, err := conn.Subscribe(ctx, models.EventWindow, models.EventShutdown)
	if err != nil {
		return perrors.EventStream("subscribe", err)
	}
	defer stream.Close()

	if err := conn.Exec(ctx, p.Command); err != nil {
		return err
	}

	r := reactor.New(conn, p.Registry)
	if err := r.Run(ctx, stream); err != nil {
		return err
	}

	stats := r.Stats()
	log.Info().
		Int("windows", stats.Windows).
		Int("positioned", stats.Positioned).
		Int("ignored", stats.Ignored).
		Msg("Window placement finished")
	return nil
}

// swayConn adapts client.Client to WMConn
type swayConn struct {
	*client.Client
}

func (c swayConn) Subscribe(ctx context.Context, events ...models.MessageType) (Stream, error) {
	s, err := c.Client.Subscribe(ctx, events...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func dialSway(socket string) (WMConn, error) {
	c, err := client.Dial(context.Background(), socket, client.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return swayConn{c}, nil
}
