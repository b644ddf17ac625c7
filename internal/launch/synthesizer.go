// Package launch composes the shell command line that starts every instance
// of a game, each inside its own gamescope and bubblewrap sandbox.
package launch

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/yourusername/partygrid/internal/config"
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/game"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

// DefaultCompatLayer is used when neither the handler nor the config names one
const DefaultCompatLayer = "GE-Proton"

const (
	scoutRunScript  = "ubuntu12_32/steam-runtime/run.sh"
	soldierDir      = "steamapps/common/SteamLinuxRuntime_soldier"
	soldierEntry    = "steamapps/common/SteamLinuxRuntime_soldier/_v2-entry-point"
	sdlLib64        = "ubuntu12_32/steam-runtime/usr/lib/x86_64-linux-gnu/libSDL2-2.0.so.0"
	sdlLib32        = "ubuntu12_32/steam-runtime/usr/lib/i386-linux-gnu/libSDL2-2.0.so.0"
	sandboxPreamble = "bwrap --die-with-parent --dev-bind / / --tmpfs /tmp"
)

// Synthesizer builds launch commands. It only inspects the filesystem; it
// never starts processes.
type Synthesizer struct {
	fs    afero.Fs
	cfg   *config.Config
	paths config.Paths
}

// NewSynthesizer creates a synthesizer. paths should already be resolved.
func NewSynthesizer(fs afero.Fs, cfg *config.Config, paths config.Paths) *Synthesizer {
	return &Synthesizer{fs: fs, cfg: cfg, paths: paths}
}

// target collects the per-run values shared by every instance
type target struct {
	game    game.Game
	handler *game.Handler // nil for a bare executable
	dir     string
	exec    string
	win     bool
	runtime string
	delay   time.Duration
}

// Build returns one shell command line starting every instance, in order.
// Instances are backgrounded and separated by the configured settle delay;
// the last one runs in the foreground. All preconditions are checked before
// any text is produced.
func (s *Synthesizer) Build(g game.Game, devices []types.Device, instances []*state.Instance) (string, error) {
	t, err := s.resolve(g, devices, instances)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(s.environment(t))
	fmt.Fprintf(&b, "cd %s; ", dquote(t.dir))

	sleep := fmt.Sprintf(" & sleep %s; ", config.FormatDelay(t.delay))
	for i, inst := range instances {
		if i > 0 {
			b.WriteString(sleep)
		}
		b.WriteString(strings.Join(s.instanceTokens(t, i, inst, devices), " "))
	}

	return b.String(), nil
}

func (s *Synthesizer) resolve(g game.Game, devices []types.Device, instances []*state.Instance) (*target, error) {
	const op = "build launch command"

	if g == nil {
		return nil, perrors.Precondition(op, "no game selected")
	}
	if len(instances) == 0 {
		return nil, perrors.Precondition(op, "no instances to launch")
	}
	for i, inst := range instances {
		if inst.ProfileName == "" {
			return nil, perrors.Precondition(op, "instance %d has no profile name", i+1)
		}
		for _, d := range inst.Devices {
			if d < 0 || d >= len(devices) {
				return nil, perrors.Precondition(op, "instance %d references device %d, only %d known", i+1, d, len(devices))
			}
		}
	}

	t := &target{
		game: g,
		dir:  g.Dir(s.paths.Party),
		exec: g.ExecName(),
		win:  g.IsWindows(),
	}
	if h, ok := g.(*game.Handler); ok {
		t.handler = h
	}

	// A symlinked directory is created at launch time, so check the source
	checkDir := t.dir
	if t.handler != nil {
		checkDir = t.handler.RootPath
	}
	if ok, _ := afero.Exists(s.fs, filepath.Join(checkDir, t.exec)); !ok {
		return nil, perrors.Precondition(op, "executable not found: %s", filepath.Join(checkDir, t.exec))
	}

	if t.win {
		if ok, _ := afero.Exists(s.fs, s.paths.UmuRun); !ok {
			return nil, perrors.Precondition(op, "compatibility launcher not found: %s", s.paths.UmuRun)
		}
		t.runtime = dquote(s.paths.UmuRun)
	} else if t.handler != nil {
		switch t.handler.Runtime {
		case game.RuntimeScout:
			if ok, _ := afero.Exists(s.fs, filepath.Join(s.paths.Steam, scoutRunScript)); !ok {
				return nil, perrors.Precondition(op, "steam scout runtime not found")
			}
			t.runtime = dquote(filepath.Join(s.paths.Steam, scoutRunScript))
		case game.RuntimeSoldier:
			if ok, _ := afero.DirExists(s.fs, filepath.Join(s.paths.Steam, soldierDir)); !ok {
				return nil, perrors.Precondition(op, "steam soldier runtime not found")
			}
			t.runtime = dquote(filepath.Join(s.paths.Steam, soldierEntry))
		}
	}

	var err error
	if t.win {
		t.delay, err = s.cfg.SettleDelays.CompatDelay()
	} else {
		t.delay, err = s.cfg.SettleDelays.NativeDelay()
	}
	if err != nil {
		return nil, perrors.Precondition(op, "settle delay: %v", err)
	}

	return t, nil
}

// environment returns the "export ...; " prefix
func (s *Synthesizer) environment(t *target) string {
	env := []string{"SDL_JOYSTICK_HIDAPI=0", "ENABLE_GAMESCOPE_WSI=0", "PROTON_DISABLE_HIDRAW=1"}

	if s.cfg.ForceSDL && !t.win {
		lib := sdlLib64
		if t.handler != nil && t.handler.Is32Bit {
			lib = sdlLib32
		}
		env = append(env, "SDL_DYNAMIC_API="+dquote(filepath.Join(s.paths.Steam, lib)))
	}

	if t.win {
		env = append(env, "PROTON_VERB=run", "PROTONPATH="+s.compatLayer(t))
		if t.handler != nil {
			if len(t.handler.DLLs) > 0 {
				env = append(env, "WINEDLLOVERRIDES="+dquote(strings.Join(t.handler.DLLs, ",")+"=n,b"))
			}
			if t.handler.ColdClient {
				env = append(env, "PROTON_DISABLE_LSTEAMCLIENT=1")
			}
		}
	}

	return "export " + strings.Join(env, " ") + "; "
}

func (s *Synthesizer) compatLayer(t *target) string {
	switch {
	case t.handler != nil && t.handler.Compat != "":
		return t.handler.Compat
	case s.cfg.CompatLayerVersion != "":
		return s.cfg.CompatLayerVersion
	default:
		return DefaultCompatLayer
	}
}

func (s *Synthesizer) prefix(i int) string {
	if s.cfg.SeparateCompatPrefixes {
		return filepath.Join(s.paths.Party, fmt.Sprintf("pfx%d", i+1))
	}
	return filepath.Join(s.paths.Party, "pfx")
}

func (s *Synthesizer) instanceTokens(t *target, i int, inst *state.Instance, devices []types.Device) []string {
	var tokens []string
	pfx := s.prefix(i)

	if t.win {
		tokens = append(tokens, "WINEPREFIX="+dquote(pfx))
	}

	// Compositor
	if s.cfg.KBMHardwarePassthrough {
		tokens = append(tokens, dquote(s.paths.GamescopeKBM))
	} else {
		tokens = append(tokens, "gamescope")
	}
	if inst.Width > 0 && inst.Height > 0 {
		tokens = append(tokens, "-W", strconv.Itoa(inst.Width), "-H", strconv.Itoa(inst.Height))
	}
	if s.cfg.CompositorSDLBackend {
		tokens = append(tokens, "--backend=sdl")
	}
	if s.cfg.KBMHardwarePassthrough {
		tokens = append(tokens, kbmTokens(inst, devices)...)
	}

	// Sandbox
	tokens = append(tokens, "--", sandboxPreamble)
	for d, dev := range devices {
		if !dev.Enabled || (dev.Type == types.DeviceGamepad && !inst.HasDevice(d)) {
			tokens = append(tokens, "--bind /dev/null "+dquote(dev.Path))
		}
	}
	if t.handler != nil {
		tokens = append(tokens, s.handlerBinds(t, inst, pfx)...)
	}

	// Game
	if t.runtime != "" {
		tokens = append(tokens, t.runtime)
	}
	tokens = append(tokens, dquote(filepath.Join(t.dir, t.exec)))
	tokens = append(tokens, s.arguments(t, inst)...)

	return tokens
}

func kbmTokens(inst *state.Instance, devices []types.Device) []string {
	var tokens, held []string
	var keyboard, mouse bool

	for _, d := range inst.Devices {
		switch devices[d].Type {
		case types.DeviceKeyboard:
			keyboard = true
		case types.DeviceMouse:
			mouse = true
		default:
			continue
		}
		held = append(held, devices[d].Path)
	}

	if keyboard {
		tokens = append(tokens, "--backend-disable-keyboard")
	}
	if mouse {
		tokens = append(tokens, "--backend-disable-mouse")
	}
	if len(held) > 0 {
		tokens = append(tokens, "--libinput-hold-dev", dquote(strings.Join(held, ",")))
	}
	return tokens
}

func bind(src, dst string) string {
	return "--bind " + dquote(src) + " " + dquote(dst)
}

func (s *Synthesizer) handlerBinds(t *target, inst *state.Instance, pfx string) []string {
	h := t.handler
	profileDir := filepath.Join(s.paths.Party, "profiles", inst.ProfileName)
	saveDir := filepath.Join(profileDir, "saves", h.UID)

	var binds []string
	if h.GoldbergPath != "" {
		binds = append(binds, bind(filepath.Join(profileDir, "steam"), filepath.Join(t.dir, h.GoldbergPath, "goldbergsave")))
	}

	if h.Win {
		userDir := filepath.Join(pfx, "drive_c", "users", "steamuser")
		if h.WinUniqueAppData {
			binds = append(binds, bind(filepath.Join(saveDir, "_AppData"), filepath.Join(userDir, "AppData")))
		}
		if h.WinUniqueDocuments {
			binds = append(binds, bind(filepath.Join(saveDir, "_Documents"), filepath.Join(userDir, "Documents")))
		}
	} else {
		if h.LinuxUniqueLocalShare {
			binds = append(binds, bind(filepath.Join(saveDir, "_share"), s.paths.LocalShare))
		}
		if h.LinuxUniqueConfig {
			binds = append(binds, bind(filepath.Join(saveDir, "_config"), filepath.Join(s.paths.Home, ".config")))
		}
	}

	for _, sub := range h.GameUniquePaths {
		binds = append(binds, bind(filepath.Join(saveDir, sub), filepath.Join(t.dir, sub)))
	}
	return binds
}

// arguments expands handler placeholders or quotes executable arguments
func (s *Synthesizer) arguments(t *target, inst *state.Instance) []string {
	if t.handler == nil {
		exe := t.game.(*game.Executable)
		args := make([]string, len(exe.Args))
		for i, a := range exe.Args {
			args[i] = shellQuote(a)
		}
		return args
	}

	args := make([]string, len(t.handler.Args))
	for i, a := range t.handler.Args {
		args[i] = ExpandPlaceholder(a, t.dir, inst)
	}
	return args
}

// ExpandPlaceholder replaces a single handler argument token with its
// instance value. Unknown tokens are returned unchanged.
func ExpandPlaceholder(arg, gameDir string, inst *state.Instance) string {
	switch arg {
	case "$GAMEDIR":
		return dquote(gameDir)
	case "$PROFILE":
		return dquote(inst.ProfileName)
	case "$WIDTH":
		return strconv.Itoa(inst.Width)
	case "$HEIGHT":
		return strconv.Itoa(inst.Height)
	case "$WIDTHXHEIGHT":
		return dquote(inst.Resolution().String())
	default:
		return arg
	}
}
