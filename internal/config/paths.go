package config

import (
	"os"
	"path/filepath"
)

// Resolve returns a copy of p with every empty location filled from the
// environment: HOME, XDG_DATA_HOME and the directories derived from them.
func (p Paths) Resolve() Paths {
	if p.Home == "" {
		p.Home = os.Getenv("HOME")
		if p.Home == "" {
			p.Home, _ = os.UserHomeDir()
		}
	}
	if p.LocalShare == "" {
		p.LocalShare = os.Getenv("XDG_DATA_HOME")
		if p.LocalShare == "" {
			p.LocalShare = filepath.Join(p.Home, ".local", "share")
		}
	}
	if p.Party == "" {
		p.Party = filepath.Join(p.LocalShare, "partygrid")
	}
	if p.Steam == "" {
		p.Steam = filepath.Join(p.LocalShare, "Steam")
	}
	if p.UmuRun == "" {
		p.UmuRun = filepath.Join(p.Party, "bin", "umu-run")
	}
	if p.GamescopeKBM == "" {
		p.GamescopeKBM = filepath.Join(p.Party, "bin", "gamescope-kbm")
	}
	if p.Resources == "" {
		p.Resources = filepath.Join(p.Party, "res")
	}
	return p
}
