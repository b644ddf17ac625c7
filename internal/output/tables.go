package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

// PrintInstancesTable prints one row per instance with its profile,
// geometry and devices
func PrintInstancesTable(w io.Writer, reg *state.Registry, devices []types.Device) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Profile", "Resolution", "Cell", "Devices")

	for i, inst := range reg.Instances {
		res := "-"
		if inst.Width > 0 && inst.Height > 0 {
			res = inst.Resolution().String()
		}
		cell := "-"
		if inst.Position != nil {
			cell = inst.Position.String()
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(inst.ProfileName, 20),
			res,
			cell,
			formatDevices(inst.Devices, devices),
		)
	}

	table.Render()
}

// PrintDevicesTable prints the session's input devices
func PrintDevicesTable(w io.Writer, devices []types.Device) {
	table := tablewriter.NewWriter(w)
	table.Header("Index", "Type", "Path", "Name", "Enabled")

	for i, d := range devices {
		enabled := "yes"
		if !d.Enabled {
			enabled = "no"
		}
		table.Append(
			fmt.Sprintf("%d", i),
			string(d.Type),
			d.Path,
			truncate(d.Name, 25),
			enabled,
		)
	}

	table.Render()
}

// PrintSocketsTable prints window manager sockets found on the system
func PrintSocketsTable(w io.Writer, sockets []string) {
	table := tablewriter.NewWriter(w)
	table.Header("Socket", "Directory")

	for _, s := range sockets {
		table.Append(filepath.Base(s), filepath.Dir(s))
	}

	table.Render()
}

// Helper functions

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatDevices names each device index by its file, e.g. "0:event3"
func formatDevices(indices []int, devices []types.Device) string {
	if len(indices) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(devices) {
			parts = append(parts, fmt.Sprintf("%d:?", idx))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d:%s", idx, filepath.Base(devices[idx].Path)))
	}
	return strings.Join(parts, ", ")
}
