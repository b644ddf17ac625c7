package reactor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/yourusername/partygrid/internal/models"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

type step struct {
	ev  *models.Event
	err error
}

// fakeSource replays steps, then blocks until ctx is done
type fakeSource struct {
	steps []step
}

func (f *fakeSource) Next(ctx context.Context) (*models.Event, error) {
	if len(f.steps) == 0 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.ev, s.err
}

type fakePlacer struct {
	placed []int64
	fail   map[int64]bool
}

func (p *fakePlacer) PositionNewRow(ctx context.Context, id int64) error {
	if p.fail[id] {
		return fmt.Errorf("command failed for %d", id)
	}
	p.placed = append(p.placed, id)
	return nil
}

type fixedRows []int

func (f fixedRows) Rows() int        { return len(f) }
func (f fixedRows) RowLen(n int) int { return f[n] }

func newWindow(id int64) step {
	return step{ev: &models.Event{
		Type:   models.EventWindow,
		Window: &models.WindowEvent{Change: models.WindowNew, Container: models.Container{ID: id}},
	}}
}

func windowChange(change string, id int64) step {
	return step{ev: &models.Event{
		Type:   models.EventWindow,
		Window: &models.WindowEvent{Change: change, Container: models.Container{ID: id}},
	}}
}

var shutdown = step{ev: &models.Event{Type: models.EventShutdown, Shutdown: &models.ShutdownEvent{Change: "exit"}}}

var eof = step{err: io.EOF}

func TestRunPlacement(t *testing.T) {
	tests := []struct {
		name       string
		rows       fixedRows
		steps      []step
		wantPlaced []int64
		wantStats  Stats
	}{
		{
			name:       "two rows three windows",
			rows:       fixedRows{2, 1},
			steps:      []step{newWindow(1), newWindow(2), newWindow(3), shutdown},
			wantPlaced: []int64{1, 3},
			wantStats:  Stats{Windows: 3, Positioned: 2},
		},
		{
			name:       "single row",
			rows:       fixedRows{3},
			steps:      []step{newWindow(1), newWindow(2), newWindow(3), eof},
			wantPlaced: []int64{1},
			wantStats:  Stats{Windows: 3, Positioned: 1},
		},
		{
			name:       "empty row skipped",
			rows:       fixedRows{0, 2},
			steps:      []step{newWindow(4), newWindow(5), shutdown},
			wantPlaced: []int64{4},
			wantStats:  Stats{Windows: 2, Positioned: 1},
		},
		{
			name:       "overflow ignored",
			rows:       fixedRows{1, 1},
			steps:      []step{newWindow(1), newWindow(2), newWindow(3), newWindow(4), shutdown},
			wantPlaced: []int64{1, 2},
			wantStats:  Stats{Windows: 4, Positioned: 2, Ignored: 2},
		},
		{
			name:       "other window changes ignored",
			rows:       fixedRows{1, 1},
			steps:      []step{newWindow(1), windowChange(models.WindowFocus, 1), windowChange(models.WindowClose, 1), newWindow(2), shutdown},
			wantPlaced: []int64{1, 2},
			wantStats:  Stats{Windows: 2, Positioned: 2},
		},
		{
			name: "malformed events skipped",
			rows: fixedRows{1, 1},
			steps: []step{
				newWindow(1),
				{err: fmt.Errorf("decode window: %w", models.ErrMalformedEvent)},
				newWindow(2),
				shutdown,
			},
			wantPlaced: []int64{1, 2},
			wantStats:  Stats{Windows: 2, Positioned: 2, Skipped: 1},
		},
		{
			name:      "no grid",
			rows:      fixedRows{},
			steps:     []step{newWindow(1), eof},
			wantStats: Stats{Windows: 1, Ignored: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placer := &fakePlacer{}
			r := New(placer, tt.rows)

			if err := r.Run(context.Background(), &fakeSource{steps: tt.steps}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if len(placer.placed) != len(tt.wantPlaced) {
				t.Fatalf("placed = %v, want %v", placer.placed, tt.wantPlaced)
			}
			for i := range tt.wantPlaced {
				if placer.placed[i] != tt.wantPlaced[i] {
					t.Errorf("placed[%d] = %d, want %d", i, placer.placed[i], tt.wantPlaced[i])
				}
			}
			if got := r.Stats(); got != tt.wantStats {
				t.Errorf("Stats() = %+v, want %+v", got, tt.wantStats)
			}
		})
	}
}

func TestRunPlacerFailureContinues(t *testing.T) {
	placer := &fakePlacer{fail: map[int64]bool{1: true}}
	r := New(placer, fixedRows{1, 1})

	err := r.Run(context.Background(), &fakeSource{steps: []step{newWindow(1), newWindow(2), shutdown}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(placer.placed) != 1 || placer.placed[0] != 2 {
		t.Errorf("placed = %v, want [2]", placer.placed)
	}
	// The failed window still counts toward its row
	if got := r.Stats(); got.Windows != 2 || got.Positioned != 1 {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(&fakePlacer{}, fixedRows{1})
	err := r.Run(ctx, &fakeSource{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunStreamError(t *testing.T) {
	broken := errors.New("connection reset")
	r := New(&fakePlacer{}, fixedRows{1})

	err := r.Run(context.Background(), &fakeSource{steps: []step{{err: broken}}})
	if !errors.Is(err, broken) {
		t.Errorf("Run() error = %v, want %v", err, broken)
	}
}

func TestRunWithRegistry(t *testing.T) {
	instances := make([]*state.Instance, 3)
	for i := range instances {
		instances[i] = state.NewInstance([]int{i}, 0)
		instances[i].Position = &types.GridPosition{Row: i / 2, Col: i % 2}
	}
	reg := state.NewRegistry(instances)
	reg.SetGrid(types.Grid{Rows: 2, Cols: 2, Screen: types.Resolution{Width: 1920, Height: 1080}})
	if err := reg.RebuildPositions(); err != nil {
		t.Fatal(err)
	}

	placer := &fakePlacer{}
	r := New(placer, reg)
	steps := []step{newWindow(10), newWindow(11), newWindow(12), newWindow(13), shutdown}
	if err := r.Run(context.Background(), &fakeSource{steps: steps}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(placer.placed) != 2 || placer.placed[0] != 10 || placer.placed[1] != 12 {
		t.Errorf("placed = %v, want [10 12]", placer.placed)
	}
	if r.Stats().Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", r.Stats().Ignored)
	}
}
