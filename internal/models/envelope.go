package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Magic opens every i3/sway IPC frame
const Magic = "i3-ipc"

// HeaderSize is the magic plus the payload length and message type
const HeaderSize = len(Magic) + 8

// MaxPayload bounds a single frame read from the socket
const MaxPayload = 64 << 20

// MessageType identifies a request or, with EventBit set, an event
type MessageType uint32

const (
	MsgRunCommand MessageType = 0
	MsgSubscribe  MessageType = 2
	MsgGetVersion MessageType = 7

	// EventBit marks messages pushed on a subscribed connection
	EventBit MessageType = 0x80000000

	EventWindow   = EventBit | 3
	EventShutdown = EventBit | 6
)

// IsEvent reports whether the type carries EventBit
func (t MessageType) IsEvent() bool {
	return t&EventBit != 0
}

// String returns the string representation of a MessageType
func (t MessageType) String() string {
	switch t {
	case MsgRunCommand:
		return "run_command"
	case MsgSubscribe:
		return "subscribe"
	case MsgGetVersion:
		return "get_version"
	case EventWindow:
		return "window"
	case EventShutdown:
		return "shutdown"
	default:
		if t.IsEvent() {
			return fmt.Sprintf("event(%d)", uint32(t&^EventBit))
		}
		return fmt.Sprintf("message(%d)", uint32(t))
	}
}

// Message is one IPC frame
type Message struct {
	Type    MessageType
	Payload []byte
}

// Encode returns the frame bytes: magic, little-endian length and type, payload
func (m *Message) Encode() []byte {
	buf := make([]byte, HeaderSize+len(m.Payload))
	copy(buf, Magic)
	binary.LittleEndian.PutUint32(buf[len(Magic):], uint32(len(m.Payload)))
	binary.LittleEndian.PutUint32(buf[len(Magic)+4:], uint32(m.Type))
	copy(buf[HeaderSize:], m.Payload)
	return buf
}

// WriteMessage writes one frame to w
func WriteMessage(w io.Writer, m *Message) error {
	if _, err := w.Write(m.Encode()); err != nil {
		return fmt.Errorf("failed to write %s message: %w", m.Type, err)
	}
	return nil
}

// ReadMessage reads one frame from r. A clean end of stream before the header
// is returned as io.EOF.
func ReadMessage(r io.Reader) (*Message, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated message header: %w", err)
		}
		return nil, err
	}

	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return nil, fmt.Errorf("invalid message magic %q", header[:len(Magic)])
	}

	length := binary.LittleEndian.Uint32(header[len(Magic):])
	if length > MaxPayload {
		return nil, fmt.Errorf("message payload too large: %d bytes", length)
	}

	msg := &Message{
		Type:    MessageType(binary.LittleEndian.Uint32(header[len(Magic)+4:])),
		Payload: make([]byte, length),
	}
	if _, err := io.ReadFull(r, msg.Payload); err != nil {
		return nil, fmt.Errorf("failed to read %s payload: %w", msg.Type, err)
	}
	return msg, nil
}
