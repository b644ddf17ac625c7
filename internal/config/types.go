package config

import "github.com/yourusername/partygrid/internal/types"

// Config is the root configuration structure
type Config struct {
	InstanceLayoutMode     types.LayoutMode `yaml:"instanceLayoutMode" json:"instanceLayoutMode"`
	GridPolicy             types.GridPolicy `yaml:"gridPolicy" json:"gridPolicy"`
	VerticalTwoPlayer      bool             `yaml:"verticalTwoPlayer" json:"verticalTwoPlayer"`
	ForceSDL               bool             `yaml:"forceSdl" json:"forceSdl"`                             // Point native games at the Steam runtime SDL2
	LowResFix              bool             `yaml:"lowResFix" json:"lowResFix"`                           // Raise small fixed-quadrant instances to 600px high
	KBMHardwarePassthrough bool             `yaml:"kbmHardwarePassthrough" json:"kbmHardwarePassthrough"` // Use the kbm gamescope build and hold keyboards/mice per instance
	CompositorSDLBackend   bool             `yaml:"compositorSdlBackend" json:"compositorSdlBackend"`     // Pass --backend=sdl to gamescope
	CompatLayerVersion     string           `yaml:"compatLayerVersion" json:"compatLayerVersion"`         // PROTONPATH, empty = GE-Proton
	SeparateCompatPrefixes bool             `yaml:"separateCompatPrefixes" json:"separateCompatPrefixes"` // One WINEPREFIX per instance
	KWinScript             bool             `yaml:"kwinScript" json:"kwinScript"`                         // Load the KWin tiling script in fixed-quadrant mode
	Screen                 types.Resolution `yaml:"screen" json:"screen"`

	SettleDelays SettleDelays `yaml:"settleDelays" json:"settleDelays"`
	Sway         SwayConfig   `yaml:"sway" json:"sway"`
	Paths        Paths        `yaml:"paths" json:"paths"`
}

// SettleDelays are the pauses between starting consecutive instances.
// Values are durations ("6s", "10ms") or bare seconds ("0.01").
type SettleDelays struct {
	Compat string `yaml:"compat" json:"compat"` // Games run through the compatibility layer
	Native string `yaml:"native" json:"native"`
}

// SwayConfig controls the nested sway session used by grid mode
type SwayConfig struct {
	Config              string `yaml:"config,omitempty" json:"config,omitempty"`       // Default <resources>/sway.cfg
	SocketDir           string `yaml:"socketDir,omitempty" json:"socketDir,omitempty"` // Default /run/user/<uid>
	DiscoveryIntervalMs int    `yaml:"discoveryIntervalMs" json:"discoveryIntervalMs"`
	DiscoveryAttempts   int    `yaml:"discoveryAttempts" json:"discoveryAttempts"`
}

// Paths are the filesystem locations used when building launch commands.
// Empty values are filled by Resolve.
type Paths struct {
	Home         string `yaml:"home,omitempty" json:"home,omitempty"`
	LocalShare   string `yaml:"localShare,omitempty" json:"localShare,omitempty"`
	Party        string `yaml:"party,omitempty" json:"party,omitempty"` // Profiles, prefixes, symlinked game dirs
	Steam        string `yaml:"steam,omitempty" json:"steam,omitempty"`
	UmuRun       string `yaml:"umuRun,omitempty" json:"umuRun,omitempty"`
	GamescopeKBM string `yaml:"gamescopeKbm,omitempty" json:"gamescopeKbm,omitempty"`
	Resources    string `yaml:"resources,omitempty" json:"resources,omitempty"` // KWin scripts and sway.cfg
}
