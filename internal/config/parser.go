package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDelay converts a settle delay to a duration.
// Supports: "6s", "250ms", "1m", and bare seconds such as "6" or "0.01".
func ParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty delay")
	}

	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(math.Round(secs * float64(time.Second)))
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid delay %q: %w", s, err)
		}
	}

	if d < 0 {
		return 0, fmt.Errorf("delay %q must not be negative", s)
	}
	return d, nil
}

// FormatDelay renders a duration as the seconds value used by sleep(1)
func FormatDelay(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// CompatDelay returns the parsed compat-layer settle delay
func (s SettleDelays) CompatDelay() (time.Duration, error) {
	return ParseDelay(s.Compat)
}

// NativeDelay returns the parsed native settle delay
func (s SettleDelays) NativeDelay() (time.Duration, error) {
	return ParseDelay(s.Native)
}
