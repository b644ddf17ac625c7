// Package game describes what is being launched: either a bare executable or
// a managed handler with per-title launch metadata.
package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Game is implemented by *Executable and *Handler only.
type Game interface {
	// Dir returns the directory the game is started from
	Dir(partyDir string) string
	// ExecName returns the executable path relative to Dir
	ExecName() string
	// IsWindows reports whether the game runs under the compatibility layer
	IsWindows() bool

	sealed()
}

// Executable is a game started directly from a path
type Executable struct {
	Path string   `yaml:"path" json:"path"`
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
}

func (e *Executable) Dir(string) string { return filepath.Dir(e.Path) }
func (e *Executable) ExecName() string  { return filepath.Base(e.Path) }
func (e *Executable) sealed()           {}

// IsWindows is true for .exe files
func (e *Executable) IsWindows() bool {
	return strings.EqualFold(filepath.Ext(e.Path), ".exe")
}

// Runtime identifies a Steam Linux runtime wrapper
type Runtime string

const (
	RuntimeNone    Runtime = ""
	RuntimeScout   Runtime = "scout"
	RuntimeSoldier Runtime = "soldier"
)

// Handler is a managed game description
type Handler struct {
	UID      string   `yaml:"uid" json:"uid"`
	Name     string   `yaml:"name" json:"name"`
	RootPath string   `yaml:"rootPath" json:"rootPath"` // Game install directory
	Exec     string   `yaml:"exec" json:"exec"`         // Relative to RootPath
	Args     []string `yaml:"args,omitempty" json:"args,omitempty"`

	Win        bool     `yaml:"win" json:"win"`
	Is32Bit    bool     `yaml:"is32bit" json:"is32bit"`
	Runtime    Runtime  `yaml:"runtime,omitempty" json:"runtime,omitempty"`
	Compat     string   `yaml:"compatLayer,omitempty" json:"compatLayer,omitempty"` // Overrides the configured compat layer build
	ColdClient bool     `yaml:"coldClient" json:"coldClient"`
	DLLs       []string `yaml:"dllOverrides,omitempty" json:"dllOverrides,omitempty"`

	GoldbergPath          string   `yaml:"goldbergPath,omitempty" json:"goldbergPath,omitempty"`
	WinUniqueAppData      bool     `yaml:"winUniqueAppData" json:"winUniqueAppData"`
	WinUniqueDocuments    bool     `yaml:"winUniqueDocuments" json:"winUniqueDocuments"`
	LinuxUniqueLocalShare bool     `yaml:"linuxUniqueLocalShare" json:"linuxUniqueLocalShare"`
	LinuxUniqueConfig     bool     `yaml:"linuxUniqueConfig" json:"linuxUniqueConfig"`
	GameUniquePaths       []string `yaml:"gameUniquePaths,omitempty" json:"gameUniquePaths,omitempty"`

	SymlinkDir bool `yaml:"symlinkDir" json:"symlinkDir"` // Run from <party>/gamesyms/<uid>
}

// Dir returns the symlinked directory when SymlinkDir is set, else RootPath
func (h *Handler) Dir(partyDir string) string {
	if h.SymlinkDir {
		return SymlinkPath(partyDir, h.UID)
	}
	return h.RootPath
}

func (h *Handler) ExecName() string { return h.Exec }
func (h *Handler) IsWindows() bool  { return h.Win }
func (h *Handler) sealed()          {}

// SymlinkPath returns the symlinked game directory for a handler uid
func SymlinkPath(partyDir, uid string) string {
	return filepath.Join(partyDir, "gamesyms", uid)
}

// Validate checks the handler's required fields
func (h *Handler) Validate() error {
	if h.UID == "" {
		return fmt.Errorf("handler: missing uid")
	}
	if strings.ContainsAny(h.UID, `/\`) || h.UID == "." || h.UID == ".." {
		return fmt.Errorf("handler %s: uid must be a plain name", h.UID)
	}
	if h.Exec == "" {
		return fmt.Errorf("handler %s: missing exec", h.UID)
	}
	if h.RootPath == "" {
		return fmt.Errorf("handler %s: missing rootPath", h.UID)
	}
	switch h.Runtime {
	case RuntimeNone, RuntimeScout, RuntimeSoldier:
	default:
		return fmt.Errorf("handler %s: unknown runtime %q", h.UID, h.Runtime)
	}
	return nil
}

// LoadHandler reads a handler file. The format follows the extension
// (.yaml, .yml or .json). A relative rootPath is resolved against the file's
// directory.
func LoadHandler(path string) (*Handler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read handler file: %w", err)
	}

	var h Handler
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &h); err != nil {
			return nil, fmt.Errorf("failed to parse YAML handler: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, fmt.Errorf("failed to parse JSON handler: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported handler format: %s", ext)
	}

	if h.RootPath != "" && !filepath.IsAbs(h.RootPath) {
		h.RootPath = filepath.Join(filepath.Dir(path), h.RootPath)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}
