package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/yourusername/partygrid/internal/game"
	"github.com/yourusername/partygrid/internal/logging"
)

// GuestLabel is the profile list entry at index 0
const GuestLabel = "Guest"

// Store manages profile and save directories under the party directory
type Store struct {
	fs    afero.Fs
	party string
}

// NewStore creates a store rooted at partyDir
func NewStore(fs afero.Fs, partyDir string) *Store {
	return &Store{fs: fs, party: partyDir}
}

// ProfilesDir returns <party>/profiles
func (s *Store) ProfilesDir() string {
	return filepath.Join(s.party, "profiles")
}

// ProfileDir returns the directory of a named profile
func (s *Store) ProfileDir(name string) string {
	return filepath.Join(s.ProfilesDir(), name)
}

// SaveDir returns the per-game save directory of a profile
func (s *Store) SaveDir(name, uid string) string {
	return filepath.Join(s.ProfileDir(name), "saves", uid)
}

// Scan lists named profiles in alphabetical order with GuestLabel at index 0.
// Hidden guest profiles are not listed.
func (s *Store) Scan() ([]string, error) {
	profiles := []string{GuestLabel}

	entries, err := afero.ReadDir(s.fs, s.ProfilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return profiles, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !IsGuest(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return append(profiles, names...), nil
}

// EnsureProfile creates a profile directory and its goldberg steam directory
func (s *Store) EnsureProfile(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	dir := filepath.Join(s.ProfileDir(name), "steam")
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile %s: %w", name, err)
	}
	return nil
}

// EnsureSave creates the save directories a handler binds for a profile
func (s *Store) EnsureSave(name string, h *game.Handler) error {
	save := s.SaveDir(name, h.UID)
	dirs := []string{save}

	if h.Win {
		if h.WinUniqueAppData {
			dirs = append(dirs, filepath.Join(save, "_AppData", "Local"), filepath.Join(save, "_AppData", "LocalLow"), filepath.Join(save, "_AppData", "Roaming"))
		}
		if h.WinUniqueDocuments {
			dirs = append(dirs, filepath.Join(save, "_Documents"))
		}
	} else {
		if h.LinuxUniqueLocalShare {
			dirs = append(dirs, filepath.Join(save, "_share"))
		}
		if h.LinuxUniqueConfig {
			dirs = append(dirs, filepath.Join(save, "_config"))
		}
	}
	for _, sub := range h.GameUniquePaths {
		dirs = append(dirs, filepath.Join(save, sub))
	}

	for _, d := range dirs {
		if err := s.fs.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create save directory %s: %w", d, err)
		}
	}
	return nil
}

// RemoveGuests deletes every hidden guest profile
func (s *Store) RemoveGuests() error {
	entries, err := afero.ReadDir(s.fs, s.ProfilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read profiles: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() || !IsGuest(e.Name()) {
			continue
		}
		if err := s.fs.RemoveAll(s.ProfileDir(e.Name())); err != nil {
			return fmt.Errorf("failed to remove guest profile %s: %w", e.Name(), err)
		}
		logging.Debug().Str("profile", e.Name()).Msg("Removed guest profile")
	}
	return nil
}

// LinkGameDir mirrors the handler's root directory into
// <party>/gamesyms/<uid> with one symlink per top-level entry, replacing any
// previous mirror. The filesystem must support symlinks.
func (s *Store) LinkGameDir(h *game.Handler) error {
	linker, ok := s.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("filesystem %s does not support symlinks", s.fs.Name())
	}

	dst := game.SymlinkPath(s.party, h.UID)
	if err := s.fs.RemoveAll(dst); err != nil {
		return fmt.Errorf("failed to clear %s: %w", dst, err)
	}
	if err := s.fs.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(s.fs, h.RootPath)
	if err != nil {
		return fmt.Errorf("failed to read game directory: %w", err)
	}
	for _, e := range entries {
		if err := linker.SymlinkIfPossible(filepath.Join(h.RootPath, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return fmt.Errorf("failed to link %s: %w", e.Name(), err)
		}
	}
	return nil
}

// RemoveGameDir deletes the symlinked mirror of a handler's directory
func (s *Store) RemoveGameDir(uid string) error {
	if err := s.fs.RemoveAll(game.SymlinkPath(s.party, uid)); err != nil {
		return fmt.Errorf("failed to remove symlinked game directory: %w", err)
	}
	return nil
}
