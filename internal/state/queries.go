package state

import "github.com/yourusername/partygrid/internal/types"

// InstanceAt returns the index of the instance occupying pos
func (r *Registry) InstanceAt(pos types.GridPosition) (int, bool) {
	idx, ok := r.positions[pos]
	return idx, ok
}

// Row returns the indices of the instances in row n, in ascending column
// order. Columns with no instance are skipped. Without a grid the row is empty.
func (r *Registry) Row(n int) []int {
	if r.Grid == nil || n < 0 || n >= r.Grid.Rows {
		return nil
	}

	var row []int
	for col := 0; col < r.Grid.Cols; col++ {
		if idx, ok := r.positions[types.GridPosition{Row: n, Col: col}]; ok {
			row = append(row, idx)
		}
	}
	return row
}

// RowLen returns the number of instances in row n
func (r *Registry) RowLen(n int) int {
	return len(r.Row(n))
}

// Rows returns the number of grid rows, 0 without a grid
func (r *Registry) Rows() int {
	if r.Grid == nil {
		return 0
	}
	return r.Grid.Rows
}

// RowCapacities returns RowLen for every grid row
func (r *Registry) RowCapacities() []int {
	caps := make([]int, r.Rows())
	for i := range caps {
		caps[i] = r.RowLen(i)
	}
	return caps
}
