package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/partygrid/internal/types"
)

// EnvPrefix prefixes every environment override, e.g.
// PARTYGRID_INSTANCE_LAYOUT_MODE=grid or PARTYGRID_PATHS_STEAM=/mnt/steam.
const EnvPrefix = "partygrid"

// ApplyEnv overwrites cfg fields whose PARTYGRID_* variable is set
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	strs := map[string]*string{
		"compat_layer_version": &cfg.CompatLayerVersion,
		"settle_delays.compat": &cfg.SettleDelays.Compat,
		"settle_delays.native": &cfg.SettleDelays.Native,
		"sway.config":          &cfg.Sway.Config,
		"sway.socket_dir":      &cfg.Sway.SocketDir,
		"paths.party":          &cfg.Paths.Party,
		"paths.steam":          &cfg.Paths.Steam,
		"paths.umu_run":        &cfg.Paths.UmuRun,
		"paths.gamescope_kbm":  &cfg.Paths.GamescopeKBM,
		"paths.resources":      &cfg.Paths.Resources,
	}
	bools := map[string]*bool{
		"vertical_two_player":      &cfg.VerticalTwoPlayer,
		"force_sdl":                &cfg.ForceSDL,
		"low_res_fix":              &cfg.LowResFix,
		"kbm_hardware_passthrough": &cfg.KBMHardwarePassthrough,
		"compositor_sdl_backend":   &cfg.CompositorSDLBackend,
		"separate_compat_prefixes": &cfg.SeparateCompatPrefixes,
		"kwin_script":              &cfg.KWinScript,
	}
	ints := map[string]*int{
		"sway.discovery_interval_ms": &cfg.Sway.DiscoveryIntervalMs,
		"sway.discovery_attempts":    &cfg.Sway.DiscoveryAttempts,
	}

	for key, dst := range strs {
		if bound(v, key) {
			*dst = v.GetString(key)
		}
	}
	for key, dst := range bools {
		if bound(v, key) {
			*dst = v.GetBool(key)
		}
	}
	for key, dst := range ints {
		if bound(v, key) {
			*dst = v.GetInt(key)
		}
	}

	if bound(v, "instance_layout_mode") {
		mode, ok := types.ParseLayoutMode(v.GetString("instance_layout_mode"))
		if !ok {
			return fmt.Errorf("unknown layout mode %q", v.GetString("instance_layout_mode"))
		}
		cfg.InstanceLayoutMode = mode
	}
	if bound(v, "grid_policy") {
		policy, ok := types.ParseGridPolicy(v.GetString("grid_policy"))
		if !ok {
			return fmt.Errorf("unknown grid policy %q", v.GetString("grid_policy"))
		}
		cfg.GridPolicy = policy
	}
	if bound(v, "screen") {
		res, err := types.ParseResolution(v.GetString("screen"))
		if err != nil {
			return err
		}
		cfg.Screen = res
	}

	return nil
}

// bound binds key to its environment variable and reports whether it is set
func bound(v *viper.Viper, key string) bool {
	_ = v.BindEnv(key)
	return v.IsSet(key)
}
