package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Client sends commands to a sway instance over its IPC socket
type Client struct {
	socketPath string
	timeout    time.Duration
	conn       *Connection
}

// NewClient creates a new client for the socket at socketPath
func NewClient(socketPath string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
		conn:       NewConnection(socketPath, timeout),
	}
}

// Dial connects to the socket and confirms that a window manager answers on it
func Dial(ctx context.Context, socketPath string, timeout time.Duration) (*Client, error) {
	c := NewClient(socketPath, timeout)
	if err := c.Connect(); err != nil {
		return nil, err
	}
	v, err := c.GetVersion(ctx)
	if err != nil {
		c.Close()
		return nil, perrors.ToolUnavailable("dial", fmt.Errorf("no IPC reply on %s: %w", socketPath, err))
	}
	logging.Info().Str("socket", socketPath).Str("version", v.HumanReadable).Msg("Connected to window manager")
	return c, nil
}

// Connect establishes the command connection
func (c *Client) Connect() error {
	return c.conn.Connect()
}

// Close closes the command connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) request(ctx context.Context, typ models.MessageType, payload []byte, reply interface{}) error {
	if !c.conn.IsConnected() {
		if err := c.Connect(); err != nil {
			return err
		}
	}

	msg, err := c.conn.Request(ctx, typ, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(msg.Payload, reply); err != nil {
		return fmt.Errorf("failed to unmarshal %s reply: %w", typ, err)
	}
	return nil
}

// RunCommand runs a sway command and fails if any part of it fails
func (c *Client) RunCommand(ctx context.Context, command string) ([]models.CommandResult, error) {
	var results []models.CommandResult
	if err := c.request(ctx, models.MsgRunCommand, []byte(command), &results); err != nil {
		return nil, err
	}

	for _, r := range results {
		if !r.Success {
			return results, fmt.Errorf("command %q failed: %s", command, r.Error)
		}
	}
	logging.Debug().Str("command", command).Msg("Ran window manager command")
	return results, nil
}

// Exec starts a shell command line inside the window manager session
func (c *Client) Exec(ctx context.Context, shellCommand string) error {
	_, err := c.RunCommand(ctx, ExecCommand(shellCommand))
	return err
}

// ExecCommand wraps a shell command line as a sway exec command
func ExecCommand(shellCommand string) string {
	return "exec sh -c '" + strings.ReplaceAll(shellCommand, "'", `'\''`) + "'"
}

// PositionNewRow moves a container below the current row and makes it the
// first cell of a new horizontally split row.
func (c *Client) PositionNewRow(ctx context.Context, containerID int64) error {
	if _, err := c.RunCommand(ctx, fmt.Sprintf("[con_id=%d] move down", containerID)); err != nil {
		return err
	}
	if _, err := c.RunCommand(ctx, fmt.Sprintf("[con_id=%d] splith", containerID)); err != nil {
		return err
	}
	return nil
}

// GetVersion queries the window manager version
func (c *Client) GetVersion(ctx context.Context) (*models.Version, error) {
	var v models.Version
	if err := c.request(ctx, models.MsgGetVersion, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Subscribe opens a second connection subscribed to the given events
func (c *Client) Subscribe(ctx context.Context, events ...models.MessageType) (*EventStream, error) {
	names := make([]string, 0, len(events))
	for _, e := range events {
		name, ok := models.EventNames[e]
		if !ok {
			return nil, fmt.Errorf("cannot subscribe to %s", e)
		}
		names = append(names, name)
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal subscription: %w", err)
	}

	conn := NewConnection(c.socketPath, c.timeout)
	if err := conn.Connect(); err != nil {
		return nil, err
	}

	reply, err := conn.Request(ctx, models.MsgSubscribe, payload)
	if err != nil {
		conn.Close()
		return nil, err
	}
	var sr models.SubscribeReply
	if err := json.Unmarshal(reply.Payload, &sr); err != nil || !sr.Success {
		conn.Close()
		return nil, fmt.Errorf("subscription to %v refused", names)
	}

	logging.Debug().Strs("events", names).Str("socket", c.socketPath).Msg("Subscribed to window manager events")
	return &EventStream{conn: conn}, nil
}
