package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/models"
)

// EventStream yields events from a subscribed connection
type EventStream struct {
	conn *Connection
}

// Next blocks until the next event. It returns io.EOF when the window
// manager closes the stream, ctx.Err() on cancellation, and an error wrapping
// models.ErrMalformedEvent for an undecodable frame (the stream stays usable).
func (s *EventStream) Next(ctx context.Context) (*models.Event, error) {
	msg, err := s.conn.Receive(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			return nil, io.EOF
		}
		return nil, perrors.EventStream("next event", err)
	}

	ev, err := models.DecodeEvent(msg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return ev, nil
}

// Close closes the subscription connection
func (s *EventStream) Close() error {
	return s.conn.Close()
}
