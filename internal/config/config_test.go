package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/partygrid/internal/types"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadConfigFromBytesYAML(t *testing.T) {
	data := []byte(`instanceLayoutMode: grid
gridPolicy: square
screen: 2560x1440
kbmHardwarePassthrough: true
settleDelays:
  compat: 4s
sway:
  discoveryAttempts: 10
paths:
  steam: /mnt/steam
`)
	cfg, err := LoadConfigFromBytes(data, "yaml")
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error = %v", err)
	}

	if cfg.InstanceLayoutMode != types.LayoutGrid {
		t.Errorf("InstanceLayoutMode = %q, want grid", cfg.InstanceLayoutMode)
	}
	if cfg.GridPolicy != types.GridSquare {
		t.Errorf("GridPolicy = %q, want square", cfg.GridPolicy)
	}
	if cfg.Screen != (types.Resolution{Width: 2560, Height: 1440}) {
		t.Errorf("Screen = %v, want 2560x1440", cfg.Screen)
	}
	if !cfg.KBMHardwarePassthrough {
		t.Error("KBMHardwarePassthrough = false, want true")
	}
	if cfg.SettleDelays.Compat != "4s" || cfg.SettleDelays.Native != "10ms" {
		t.Errorf("SettleDelays = %+v, want compat 4s and default native", cfg.SettleDelays)
	}
	if cfg.Sway.DiscoveryAttempts != 10 || cfg.Sway.DiscoveryIntervalMs != 200 {
		t.Errorf("Sway = %+v, want attempts 10 and default interval", cfg.Sway)
	}
	if cfg.Paths.Steam != "/mnt/steam" {
		t.Errorf("Paths.Steam = %q, want /mnt/steam", cfg.Paths.Steam)
	}
	// Unset keys keep defaults
	if !cfg.VerticalTwoPlayer || !cfg.LowResFix {
		t.Error("defaults lost for unset keys")
	}
}

func TestLoadConfigFromBytesJSON(t *testing.T) {
	data := []byte(`{"instanceLayoutMode":"manual","forceSdl":true,"compatLayerVersion":"GE-Proton9-20"}`)
	cfg, err := LoadConfigFromBytes(data, "json")
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error = %v", err)
	}
	if cfg.InstanceLayoutMode != types.LayoutManual || !cfg.ForceSDL || cfg.CompatLayerVersion != "GE-Proton9-20" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigFromBytesErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  string
		wantErr string
	}{
		{"unknown format", "a: b", "toml", "unsupported config format"},
		{"bad yaml", "instanceLayoutMode: [", "yaml", "failed to parse YAML"},
		{"bad mode", "instanceLayoutMode: tiled", "yaml", "instanceLayoutMode"},
		{"bad policy", "gridPolicy: hex", "yaml", "gridPolicy"},
		{"bad screen", "screen: wide", "yaml", "resolution"},
		{"bad delay", "settleDelays:\n  native: soon", "yaml", "settleDelays"},
		{"negative delay", "settleDelays:\n  compat: -1s", "yaml", "negative"},
		{"zero attempts", "sway:\n  discoveryAttempts: 0", "yaml", "discoveryAttempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromBytes([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.InstanceLayoutMode != types.LayoutFixedQuadrant {
		t.Errorf("InstanceLayoutMode = %q, want default", cfg.InstanceLayoutMode)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, DefaultConfigDir, "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"instanceLayoutMode":"grid"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.InstanceLayoutMode != types.LayoutGrid {
		t.Errorf("InstanceLayoutMode = %q, want grid", cfg.InstanceLayoutMode)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.InstanceLayoutMode = types.LayoutGrid
	cfg.Screen = types.Resolution{Width: 3440, Height: 1440}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.InstanceLayoutMode != types.LayoutGrid || loaded.Screen != cfg.Screen {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PARTYGRID_INSTANCE_LAYOUT_MODE", "grid")
	t.Setenv("PARTYGRID_FORCE_SDL", "true")
	t.Setenv("PARTYGRID_VERTICAL_TWO_PLAYER", "false")
	t.Setenv("PARTYGRID_SCREEN", "1280x800")
	t.Setenv("PARTYGRID_PATHS_STEAM", "/srv/steam")
	t.Setenv("PARTYGRID_SETTLE_DELAYS_NATIVE", "0.5")
	t.Setenv("PARTYGRID_SWAY_DISCOVERY_ATTEMPTS", "7")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.InstanceLayoutMode != types.LayoutGrid {
		t.Errorf("InstanceLayoutMode = %q, want grid", cfg.InstanceLayoutMode)
	}
	if !cfg.ForceSDL || cfg.VerticalTwoPlayer {
		t.Errorf("ForceSDL = %v, VerticalTwoPlayer = %v", cfg.ForceSDL, cfg.VerticalTwoPlayer)
	}
	if cfg.Screen != (types.Resolution{Width: 1280, Height: 800}) {
		t.Errorf("Screen = %v, want 1280x800", cfg.Screen)
	}
	if cfg.Paths.Steam != "/srv/steam" {
		t.Errorf("Paths.Steam = %q, want /srv/steam", cfg.Paths.Steam)
	}
	if cfg.SettleDelays.Native != "0.5" {
		t.Errorf("SettleDelays.Native = %q, want 0.5", cfg.SettleDelays.Native)
	}
	if cfg.Sway.DiscoveryAttempts != 7 {
		t.Errorf("Sway.DiscoveryAttempts = %d, want 7", cfg.Sway.DiscoveryAttempts)
	}
	// Untouched values keep defaults
	if cfg.GridPolicy != types.GridAspect {
		t.Errorf("GridPolicy = %q, want aspect", cfg.GridPolicy)
	}
}

func TestApplyEnvRejectsBadMode(t *testing.T) {
	t.Setenv("PARTYGRID_INSTANCE_LAYOUT_MODE", "floating")
	if err := ApplyEnv(Default()); err == nil {
		t.Error("expected error for unknown layout mode")
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"6s", 6 * time.Second, false},
		{"10ms", 10 * time.Millisecond, false},
		{"6", 6 * time.Second, false},
		{"0.01", 10 * time.Millisecond, false},
		{" 2s ", 2 * time.Second, false},
		{"0", 0, false},
		{"", 0, true},
		{"soon", 0, true},
		{"-2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDelay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDelay(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{6 * time.Second, "6"},
		{10 * time.Millisecond, "0.01"},
		{1500 * time.Millisecond, "1.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatDelay(tt.d); got != tt.want {
			t.Errorf("FormatDelay(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPathsResolve(t *testing.T) {
	t.Setenv("HOME", "/home/player")
	t.Setenv("XDG_DATA_HOME", "")

	p := Paths{Steam: "/opt/steam"}.Resolve()

	want := Paths{
		Home:         "/home/player",
		LocalShare:   "/home/player/.local/share",
		Party:        "/home/player/.local/share/partygrid",
		Steam:        "/opt/steam",
		UmuRun:       "/home/player/.local/share/partygrid/bin/umu-run",
		GamescopeKBM: "/home/player/.local/share/partygrid/bin/gamescope-kbm",
		Resources:    "/home/player/.local/share/partygrid/res",
	}
	if p != want {
		t.Errorf("Resolve() = %+v\nwant %+v", p, want)
	}
}
