package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/yourusername/partygrid/internal/client"
	"github.com/yourusername/partygrid/internal/config"
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/execx"
	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/models"
	"github.com/yourusername/partygrid/internal/profile"
	"github.com/yourusername/partygrid/internal/reactor"
	"github.com/yourusername/partygrid/internal/types"
)

// Runner starts external programs
type Runner interface {
	Shell(ctx context.Context, command string) error
	Capture(ctx context.Context, name string, args ...string) (string, error)
	Start(name string, args ...string) (execx.Background, error)
	LookPath(name string) (string, error)
	Executable(path string) bool
}

// SocketFinder locates the IPC socket of a freshly started window manager
type SocketFinder interface {
	Snapshot() (map[string]bool, error)
	WaitForNew(ctx context.Context, before map[string]bool) (string, error)
}

// Stream is a subscribed event stream
type Stream interface {
	reactor.EventSource
	Close() error
}

// WMConn is a command connection to the nested window manager
type WMConn interface {
	Exec(ctx context.Context, shellCommand string) error
	PositionNewRow(ctx context.Context, containerID int64) error
	Subscribe(ctx context.Context, events ...models.MessageType) (Stream, error)
	Close() error
}

// Dialer connects to a window manager socket
type Dialer func(socket string) (WMConn, error)

// Deps are the launcher's collaborators. Zero fields get the real
// implementations.
type Deps struct {
	Fs      afero.Fs
	Runner  Runner
	Sockets SocketFinder
	Dial    Dialer
	Pool    *profile.GuestPool
	Out     io.Writer // Receives the printed command
}

// Launcher builds plans and runs them
type Launcher struct {
	cfg   *config.Config
	paths config.Paths
	deps  Deps
	store *profile.Store
}

// NewLauncher creates a launcher. paths should already be resolved.
func NewLauncher(cfg *config.Config, paths config.Paths, deps Deps) (*Launcher, error) {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Runner == nil {
		deps.Runner = execx.Host{Output: os.Stderr}
	}
	if deps.Sockets == nil {
		d, err := client.NewDiscovery(cfg.Sway.SocketDir, unix.Getuid(),
			time.Duration(cfg.Sway.DiscoveryIntervalMs)*time.Millisecond, cfg.Sway.DiscoveryAttempts)
		if err != nil {
			return nil, err
		}
		deps.Sockets = d
	}
	if deps.Dial == nil {
		deps.Dial = dialSway
	}
	if deps.Pool == nil {
		deps.Pool = profile.NewGuestPool(profile.GuestNames, nil)
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	return &Launcher{
		cfg:   cfg,
		paths: paths,
		deps:  deps,
		store: profile.NewStore(deps.Fs, paths.Party),
	}, nil
}

// Plan resolves a session file without touching the disk
func (l *Launcher) Plan(f *File) (*Plan, error) {
	return BuildPlan(f, l.cfg, l.paths, l.deps.Fs, l.store, l.deps.Pool)
}

// Launch prepares profiles, prints the command and runs it in the plan's
// layout mode. It returns when the game session ends. Guest profiles and the
// symlinked game directory are removed afterwards, even on failure.
func (l *Launcher) Launch(ctx context.Context, p *Plan) error {
	log := logging.With(p.ID)

	if err := l.checkTools(p); err != nil {
		return err
	}
	if err := l.prepare(p); err != nil {
		l.cleanup(log, p)
		return err
	}
	defer l.cleanup(log, p)

	fmt.Fprintf(l.deps.Out, "\nCOMMAND:\n%s\n\n", p.Command)

	log.Info().Str("mode", string(p.Mode)).Int("instances", p.Registry.Len()).Msg("Launching session")

	var err error
	switch p.Mode {
	case types.LayoutFixedQuadrant:
		err = l.launchFixedQuadrant(ctx, log, p)
	case types.LayoutGrid:
		err = l.launchGrid(ctx, log, p)
	case types.LayoutManual:
		err = l.deps.Runner.Shell(ctx, p.Command)
	default:
		err = perrors.Precondition("launch", "unknown layout mode %q", p.Mode)
	}

	if err != nil {
		log.Error().Err(err).Msg("Session failed")
		return err
	}
	log.Info().Msg("Session finished")
	return nil
}

// checkTools verifies that the binaries named by path in the command can be
// executed
func (l *Launcher) checkTools(p *Plan) error {
	var tools []string
	if p.Game.IsWindows() {
		tools = append(tools, l.paths.UmuRun)
	}
	if l.cfg.KBMHardwarePassthrough {
		tools = append(tools, l.paths.GamescopeKBM)
	}
	for _, path := range tools {
		if !l.deps.Runner.Executable(path) {
			return perrors.ToolUnavailable("launch", fmt.Errorf("%s is not executable", path))
		}
	}
	return nil
}

// prepare creates profile and save directories, and the symlinked game
// directory, for handler games
func (l *Launcher) prepare(p *Plan) error {
	h := p.Handler()
	if h == nil {
		return nil
	}

	for _, inst := range p.Registry.Instances {
		if err := l.store.EnsureProfile(inst.ProfileName); err != nil {
			return err
		}
		if err := l.store.EnsureSave(inst.ProfileName, h); err != nil {
			return err
		}
	}
	if h.SymlinkDir {
		if err := l.store.LinkGameDir(h); err != nil {
			return err
		}
	}
	return nil
}

func (l *Launcher) cleanup(log zerolog.Logger, p *Plan) {
	if err := l.store.RemoveGuests(); err != nil {
		log.Warn().Err(err).Msg("Failed to remove guest profiles")
	}
	if h := p.Handler(); h != nil && h.SymlinkDir {
		if err := l.store.RemoveGameDir(h.UID); err != nil {
			log.Warn().Err(err).Msg("Failed to remove symlinked game directory")
		}
	}
}
