package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/yourusername/partygrid/internal/client"
	"github.com/yourusername/partygrid/internal/config"
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/layout"
	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/output"
	"github.com/yourusername/partygrid/internal/session"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

var (
	configPath string
	timeout    time.Duration
	screenFlag string
	jsonOutput bool
	noColor    bool
	debugMode  bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	keyColor     = color.New(color.FgYellow)
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "partygrid",
	Short: "Split-screen launcher for running several copies of a game",
	Long: `partygrid starts one copy of a game per player, each in its own gamescope
window with its own input devices and profile, and tiles the windows on one
screen.

Layout modes:
  fixed-quadrant  halves or quarters, tiled by a KWin script (up to 4 players)
  grid            rows and columns inside a nested sway session
  manual          no geometry, windows are placed by hand`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// gridCmd previews the grid for a number of players
var gridCmd = &cobra.Command{
	Use:   "grid <players>",
	Short: "Show the grid computed for a number of players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		players, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid player count %q: %w", args[0], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		policy := cfg.GridPolicy
		if p, _ := cmd.Flags().GetString("policy"); p != "" {
			var ok bool
			if policy, ok = types.ParseGridPolicy(p); !ok {
				return fmt.Errorf("invalid policy %q (want aspect or square)", p)
			}
		}

		instances := make([]*state.Instance, max(players, 0))
		for i := range instances {
			instances[i] = state.NewInstance(nil, 0)
		}
		reg := state.NewRegistry(instances)
		if err := layout.AssignLayout(reg, types.LayoutGrid, cfg.Screen, layout.Options{GridPolicy: policy}); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(gridView{
				Grid:      *reg.Grid,
				Cell:      reg.Grid.CellResolution(),
				Rows:      reg.RowCapacities(),
				Positions: positions(reg),
			})
		}

		drawing, err := output.VisualizeGrid(reg, output.DefaultVisualizationOptions())
		if err != nil {
			return err
		}
		output.PrintVisualization(os.Stdout, drawing)
		return nil
	},
}

// planCmd resolves a session without launching it
var planCmd = &cobra.Command{
	Use:   "plan <session>",
	Short: "Show the launch plan for a session file",
	Long: `Resolves profiles, geometry and the launch command for a session file and
prints them. Nothing is started and nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launcher, f, err := setupSession(args[0])
		if err != nil {
			return err
		}

		p, err := launcher.Plan(f)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(newPlanView(p))
		}
		printPlan(p)
		return nil
	},
}

// launchCmd runs a session
var launchCmd = &cobra.Command{
	Use:   "launch <session>",
	Short: "Launch every instance of a session",
	Long: `Prepares profiles, starts every instance of the game and lays out their
windows according to the configured layout mode. Returns when the game
session ends.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		launcher, f, err := setupSession(args[0])
		if err != nil {
			return err
		}

		p, err := launcher.Plan(f)
		if err != nil {
			return err
		}
		if !jsonOutput {
			printPlan(p)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := launcher.Launch(ctx, p); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]string{"session": p.ID, "status": "finished"})
		}
		successColor.Println("✓ Session finished")
		return nil
	},
}

// socketsCmd lists sway sockets
var socketsCmd = &cobra.Command{
	Use:   "sockets",
	Short: "List sway IPC sockets of the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := client.NewDiscovery(cfg.Sway.SocketDir, unix.Getuid(),
			time.Duration(cfg.Sway.DiscoveryIntervalMs)*time.Millisecond, cfg.Sway.DiscoveryAttempts)
		if err != nil {
			return err
		}
		sockets, err := d.List()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(sockets)
		}
		if len(sockets) == 0 {
			fmt.Printf("No sway sockets in %s\n", d.Dir)
			return nil
		}
		output.PrintSocketsTable(os.Stdout, sockets)
		return nil
	},
}

// MARK: - Config Commands

// configCmd is the parent command for config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for showing, validating and creating the partygrid configuration.`,
}

// configShowCmd shows current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cfg)
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

// configValidateCmd validates config file
var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		successColor.Println("✓ Configuration is valid")
		fmt.Printf("  Layout mode: %s\n", cfg.InstanceLayoutMode)
		fmt.Printf("  Grid policy: %s\n", cfg.GridPolicy)
		fmt.Printf("  Screen: %s\n", cfg.Screen)
		return nil
	},
}

// configInitCmd creates default config
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}

		// Check if file exists
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}

		successColor.Printf("✓ Created config file at %s\n", path)
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/partygrid/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort a launch after this long (0 = no limit)")
	rootCmd.PersistentFlags().StringVar(&screenFlag, "screen", "", "Screen resolution override, e.g. 2560x1440")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(socketsCmd)

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)

	gridCmd.Flags().String("policy", "", "Grid policy: aspect or square (default from config)")

	// Disable color if requested, enable debug logging if requested
	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			logging.SetDebug(true)
		}
	})
}

func main() {
	// Initialize logging
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		logging.Close()
		os.Exit(exitCode(err))
	}
}

// Helper functions

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}

// exitCode maps failure kinds to distinct exit statuses
func exitCode(err error) int {
	switch perrors.KindOf(err) {
	case perrors.KindPrecondition:
		return 2
	case perrors.KindToolUnavailable:
		return 3
	case perrors.KindDiscoveryTimeout:
		return 4
	default:
		return 1
	}
}

// loadConfig loads the config file and applies the --screen override
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if screenFlag != "" {
		screen, err := types.ParseResolution(screenFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --screen: %w", err)
		}
		cfg.Screen = screen
	}
	return cfg, nil
}

// setupSession loads the config and session file and creates a launcher
func setupSession(path string) (*session.Launcher, *session.File, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	f, err := session.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	launcher, err := session.NewLauncher(cfg, cfg.Paths.Resolve(), session.Deps{})
	if err != nil {
		return nil, nil, err
	}
	return launcher, f, nil
}

func printPlan(p *session.Plan) {
	keyColor.Print("Session: ")
	fmt.Println(p.ID)
	keyColor.Print("Mode: ")
	fmt.Printf("%s on %s\n\n", p.Mode, p.Screen)

	if len(p.Devices) > 0 {
		output.PrintDevicesTable(os.Stdout, p.Devices)
		fmt.Println()
	}
	output.PrintInstancesTable(os.Stdout, p.Registry, p.Devices)

	if p.Registry.Grid != nil {
		if drawing, err := output.VisualizeGrid(p.Registry, output.DefaultVisualizationOptions()); err == nil {
			fmt.Println()
			output.PrintVisualization(os.Stdout, drawing)
		}
	}
}

type gridView struct {
	Grid      types.Grid           `json:"grid"`
	Cell      types.Resolution     `json:"cell"`
	Rows      []int                `json:"rows"`
	Positions []types.GridPosition `json:"positions"`
}

func positions(reg *state.Registry) []types.GridPosition {
	out := make([]types.GridPosition, 0, reg.Len())
	for _, inst := range reg.Instances {
		if inst.Position != nil {
			out = append(out, *inst.Position)
		}
	}
	return out
}

type planView struct {
	ID        string            `json:"id"`
	Mode      types.LayoutMode  `json:"mode"`
	Screen    types.Resolution  `json:"screen"`
	Grid      *types.Grid       `json:"grid,omitempty"`
	Devices   []types.Device    `json:"devices"`
	Instances []*state.Instance `json:"instances"`
	Command   string            `json:"command"`
}

func newPlanView(p *session.Plan) planView {
	return planView{
		ID:        p.ID,
		Mode:      p.Mode,
		Screen:    p.Screen,
		Grid:      p.Registry.Grid,
		Devices:   p.Devices,
		Instances: p.Registry.Instances,
		Command:   p.Command,
	}
}
