package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/models"
)

// Connection manages one Unix domain socket connection to the window manager
type Connection struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	timeout    time.Duration
}

// NewConnection creates a new connection instance
func NewConnection(socketPath string, timeout time.Duration) *Connection {
	return &Connection{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

// Connect establishes the Unix domain socket connection
func (c *Connection) Connect() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return perrors.ToolUnavailable("connect", fmt.Errorf("failed to connect to socket %s: %w", c.socketPath, err))
	}
	c.attach(conn)
	return nil
}

func (c *Connection) attach(conn net.Conn) {
	c.conn = conn
	c.reader = bufio.NewReader(conn)
}

// Close closes the connection
func (c *Connection) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// drop closes the socket and forgets it so the next request reconnects
func (c *Connection) drop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.reader = nil
}

// IsConnected returns true if the connection is established
func (c *Connection) IsConnected() bool {
	return c.conn != nil
}

// Send writes one message
func (c *Connection) Send(msg *models.Message) error {
	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	return models.WriteMessage(c.conn, msg)
}

// Receive blocks until one message arrives or ctx is done. Cancellation
// unblocks the pending read through the read deadline.
func (c *Connection) Receive(ctx context.Context) (*models.Message, error) {
	conn, reader := c.conn, c.reader
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("failed to clear read deadline: %w", err)
	}

	msgChan := make(chan *models.Message, 1)
	errChan := make(chan error, 1)

	go func() {
		msg, err := models.ReadMessage(reader)
		if err != nil {
			errChan <- err
			return
		}
		msgChan <- msg
	}()

	select {
	case <-ctx.Done():
		conn.SetReadDeadline(time.Now())
		return nil, ctx.Err()
	case err := <-errChan:
		return nil, err
	case msg := <-msgChan:
		return msg, nil
	}
}

// Request sends a message and waits for the reply of the same type. Any
// failure drops the connection so the next request starts on a fresh one.
func (c *Connection) Request(ctx context.Context, typ models.MessageType, payload []byte) (*models.Message, error) {
	// Apply timeout if not already set
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if !c.IsConnected() {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	if err := c.Send(&models.Message{Type: typ, Payload: payload}); err != nil {
		c.drop()
		return nil, err
	}

	reply, err := c.Receive(ctx)
	if err != nil {
		c.drop()
		return nil, fmt.Errorf("failed to read %s reply: %w", typ, err)
	}
	if reply.Type != typ {
		c.drop()
		return nil, fmt.Errorf("expected %s reply, got %s", typ, reply.Type)
	}
	return reply, nil
}
