package config

import (
	"fmt"

	"github.com/yourusername/partygrid/internal/types"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if _, ok := types.ParseLayoutMode(string(c.InstanceLayoutMode)); !ok {
		return fmt.Errorf("invalid instanceLayoutMode: %q (want fixed-quadrant, grid or manual)", c.InstanceLayoutMode)
	}
	if _, ok := types.ParseGridPolicy(string(c.GridPolicy)); !ok {
		return fmt.Errorf("invalid gridPolicy: %q (want aspect or square)", c.GridPolicy)
	}
	if !c.Screen.Valid() {
		return fmt.Errorf("invalid screen: %s", c.Screen)
	}

	if err := validateSettleDelays(&c.SettleDelays); err != nil {
		return fmt.Errorf("settleDelays: %w", err)
	}
	if err := validateSway(&c.Sway); err != nil {
		return fmt.Errorf("sway: %w", err)
	}

	return nil
}

func validateSettleDelays(d *SettleDelays) error {
	if _, err := d.CompatDelay(); err != nil {
		return fmt.Errorf("compat: %w", err)
	}
	if _, err := d.NativeDelay(); err != nil {
		return fmt.Errorf("native: %w", err)
	}
	return nil
}

func validateSway(s *SwayConfig) error {
	if s.DiscoveryIntervalMs <= 0 {
		return fmt.Errorf("discoveryIntervalMs must be positive, got %d", s.DiscoveryIntervalMs)
	}
	if s.DiscoveryAttempts <= 0 {
		return fmt.Errorf("discoveryAttempts must be positive, got %d", s.DiscoveryAttempts)
	}
	return nil
}
