package state

import (
	"testing"

	"github.com/yourusername/partygrid/internal/types"
)

func pos(row, col int) *types.GridPosition {
	return &types.GridPosition{Row: row, Col: col}
}

func newGridRegistry(rows, cols int, positions ...*types.GridPosition) *Registry {
	instances := make([]*Instance, len(positions))
	for i, p := range positions {
		instances[i] = &Instance{Position: p}
	}
	reg := NewRegistry(instances)
	reg.SetGrid(types.Grid{Rows: rows, Cols: cols, Screen: types.Resolution{Width: 1920, Height: 1080}})
	return reg
}

func TestRebuildPositions(t *testing.T) {
	reg := newGridRegistry(2, 2, pos(0, 0), pos(0, 1), pos(1, 0))
	if err := reg.RebuildPositions(); err != nil {
		t.Fatalf("RebuildPositions() error = %v", err)
	}

	for i, inst := range reg.Instances {
		got, ok := reg.InstanceAt(*inst.Position)
		if !ok || got != i {
			t.Errorf("InstanceAt(%v) = (%d, %v), want (%d, true)", inst.Position, got, ok, i)
		}
	}
	if _, ok := reg.InstanceAt(types.GridPosition{Row: 1, Col: 1}); ok {
		t.Error("InstanceAt(1,1) should be empty")
	}
}

func TestRebuildPositionsRejectsDuplicates(t *testing.T) {
	reg := newGridRegistry(1, 2, pos(0, 0), pos(0, 1))
	if err := reg.RebuildPositions(); err != nil {
		t.Fatalf("RebuildPositions() error = %v", err)
	}

	reg.Instances[1].Position = pos(0, 0)
	if err := reg.RebuildPositions(); err == nil {
		t.Fatal("expected error for duplicate cell")
	}
	// Previous map is kept
	if idx, ok := reg.InstanceAt(types.GridPosition{Row: 0, Col: 1}); !ok || idx != 1 {
		t.Errorf("InstanceAt(0,1) = (%d, %v) after failed rebuild, want (1, true)", idx, ok)
	}
}

func TestRow(t *testing.T) {
	// Positions registered out of column order
	reg := newGridRegistry(2, 3, pos(0, 2), pos(0, 0), pos(1, 1), pos(0, 1))
	if err := reg.RebuildPositions(); err != nil {
		t.Fatalf("RebuildPositions() error = %v", err)
	}

	tests := []struct {
		name string
		row  int
		want []int
	}{
		{"full row ascending columns", 0, []int{1, 3, 0}},
		{"sparse row skips empty columns", 1, []int{2}},
		{"row past grid", 2, nil},
		{"negative row", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Row(tt.row)
			if len(got) != len(tt.want) {
				t.Fatalf("Row(%d) = %v, want %v", tt.row, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Row(%d) = %v, want %v", tt.row, got, tt.want)
				}
			}
			if reg.RowLen(tt.row) != len(tt.want) {
				t.Errorf("RowLen(%d) = %d, want %d", tt.row, reg.RowLen(tt.row), len(tt.want))
			}
		})
	}
}

func TestRowWithoutGrid(t *testing.T) {
	reg := NewRegistry([]*Instance{{Position: pos(0, 0)}})
	if err := reg.RebuildPositions(); err != nil {
		t.Fatalf("RebuildPositions() error = %v", err)
	}
	if got := reg.Row(0); got != nil {
		t.Errorf("Row(0) without grid = %v, want nil", got)
	}
	if reg.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", reg.Rows())
	}
}

func TestRowCapacities(t *testing.T) {
	reg := newGridRegistry(2, 2, pos(0, 0), pos(0, 1), pos(1, 0))
	if err := reg.RebuildPositions(); err != nil {
		t.Fatalf("RebuildPositions() error = %v", err)
	}
	got := reg.RowCapacities()
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("RowCapacities() = %v, want [2 1]", got)
	}
}

func TestInstanceHasDevice(t *testing.T) {
	inst := NewInstance([]int{0, 3}, 0)
	if !inst.HasDevice(3) {
		t.Error("HasDevice(3) = false, want true")
	}
	if inst.HasDevice(1) {
		t.Error("HasDevice(1) = true, want false")
	}
}
