// Package reactor places game windows into grid rows as the window manager
// announces them.
//
// Windows are assumed to appear in launch order, so the Nth new window belongs
// to the Nth instance. Nothing verifies this; a game that opens a splash
// window first shifts every later placement.
package reactor

import (
	"context"
	"errors"
	"io"

	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/models"
)

// EventSource yields window manager events
type EventSource interface {
	Next(ctx context.Context) (*models.Event, error)
}

// Placer opens a new row with the given container
type Placer interface {
	PositionNewRow(ctx context.Context, containerID int64) error
}

// RowCounter reports how many instances each grid row holds
type RowCounter interface {
	Rows() int
	RowLen(n int) int
}

// Stats counts what a run did
type Stats struct {
	Windows    int // New-window events seen
	Positioned int // Rows opened
	Ignored    int // Windows beyond the last row
	Skipped    int // Malformed or undecodable events
}

// Reactor tracks the row currently being filled
type Reactor struct {
	placer Placer
	rows   RowCounter

	row    int
	filled int
	stats  Stats
}

// New creates a reactor starting at row 0
func New(placer Placer, rows RowCounter) *Reactor {
	return &Reactor{placer: placer, rows: rows}
}

// Stats returns the counters of the last run
func (r *Reactor) Stats() Stats {
	return r.stats
}

// Run consumes events until the window manager shuts down, the stream ends or
// ctx is cancelled. Shutdown and end of stream return nil; cancellation
// returns ctx.Err(). Malformed events and failed placements are logged and
// do not stop the loop.
func (r *Reactor) Run(ctx context.Context, events EventSource) error {
	logging.Info().Int("rows", r.rows.Rows()).Msg("Window placement started")

	for {
		ev, err := events.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case errors.Is(err, io.EOF):
				logging.Info().Msg("Event stream closed")
				return nil
			case errors.Is(err, models.ErrMalformedEvent):
				r.stats.Skipped++
				logging.Warn().Err(err).Msg("Skipping malformed event")
				continue
			default:
				return err
			}
		}

		switch {
		case ev.Shutdown != nil:
			logging.Info().Str("change", ev.Shutdown.Change).Msg("Window manager shut down")
			return nil
		case ev.IsNewWindow():
			r.place(ctx, ev.Window.Container.ID)
		default:
			logging.Debug().Str("type", ev.Type.String()).Msg("Ignoring event")
		}
	}
}

// place handles one new window
func (r *Reactor) place(ctx context.Context, conID int64) {
	r.stats.Windows++

	// Skip rows that are already full, or hold no instance at all
	for r.row < r.rows.Rows() && r.filled >= r.rows.RowLen(r.row) {
		r.row++
		r.filled = 0
	}

	if r.row >= r.rows.Rows() {
		r.stats.Ignored++
		logging.Warn().Int64("conId", conID).Msg("Every row is full, leaving window in place")
		return
	}

	if r.filled == 0 {
		if err := r.placer.PositionNewRow(ctx, conID); err != nil {
			logging.Error().Err(err).Int64("conId", conID).Int("row", r.row).Msg("Failed to open row")
		} else {
			r.stats.Positioned++
			logging.Info().Int64("conId", conID).Int("row", r.row).Msg("Opened row")
		}
	}

	r.filled++
	logging.Debug().Int64("conId", conID).Int("row", r.row).Int("filled", r.filled).Msg("Window counted")
}
