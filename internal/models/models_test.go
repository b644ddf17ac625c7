package models

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestMessageEncode(t *testing.T) {
	m := &Message{Type: MsgRunCommand, Payload: []byte("splith")}
	got := m.Encode()

	want := append([]byte("i3-ipc"), 6, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, []byte("splith")...)
	if !bytes.Equal(got, want) {
		t.Errorf("Encode() = %v, want %v", got, want)
	}
}

func TestReadMessage(t *testing.T) {
	var buf bytes.Buffer
	WriteMessage(&buf, &Message{Type: EventWindow, Payload: []byte(`{"change":"new"}`)})
	WriteMessage(&buf, &Message{Type: MsgSubscribe, Payload: nil})

	first, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if first.Type != EventWindow || string(first.Payload) != `{"change":"new"}` {
		t.Errorf("first = %v %q", first.Type, first.Payload)
	}

	second, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if second.Type != MsgSubscribe || len(second.Payload) != 0 {
		t.Errorf("second = %v %q", second.Type, second.Payload)
	}

	if _, err := ReadMessage(&buf); err != io.EOF {
		t.Errorf("ReadMessage() at end = %v, want io.EOF", err)
	}
}

func TestReadMessageErrors(t *testing.T) {
	valid := (&Message{Type: MsgRunCommand, Payload: []byte("abc")}).Encode()

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "xx-ipc")

	huge := append([]byte(nil), valid...)
	huge[6], huge[7], huge[8], huge[9] = 0xff, 0xff, 0xff, 0xff

	tests := []struct {
		name string
		data []byte
	}{
		{"bad magic", badMagic},
		{"truncated header", valid[:8]},
		{"truncated payload", valid[:len(valid)-1]},
		{"oversized payload", huge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMessage(bytes.NewReader(tt.data))
			if err == nil || err == io.EOF {
				t.Errorf("ReadMessage() error = %v, want failure", err)
			}
		})
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		typ  MessageType
		want string
	}{
		{MsgRunCommand, "run_command"},
		{EventWindow, "window"},
		{EventShutdown, "shutdown"},
		{EventBit | 1, "event(1)"},
		{MessageType(4), "message(4)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !EventWindow.IsEvent() || MsgSubscribe.IsEvent() {
		t.Error("IsEvent() misclassifies")
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(&Message{Type: EventWindow, Payload: []byte(`{"change":"new","container":{"id":42,"app_id":"gamescope"}}`)})
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if !ev.IsNewWindow() || ev.Window.Container.ID != 42 || ev.Window.Container.AppID != "gamescope" {
		t.Errorf("window event = %+v", ev.Window)
	}

	ev, err = DecodeEvent(&Message{Type: EventShutdown, Payload: []byte(`{"change":"exit"}`)})
	if err != nil || ev.Shutdown == nil || ev.Shutdown.Change != "exit" {
		t.Errorf("shutdown event = %+v, %v", ev, err)
	}

	ev, err = DecodeEvent(&Message{Type: EventBit | 1, Payload: []byte(`{}`)})
	if err != nil || ev.Window != nil || ev.Shutdown != nil || ev.IsNewWindow() {
		t.Errorf("unrelated event = %+v, %v", ev, err)
	}
}

func TestDecodeEventMalformed(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{"bad json", &Message{Type: EventWindow, Payload: []byte(`{"change":`)}},
		{"bad shutdown", &Message{Type: EventShutdown, Payload: []byte(`[`)}},
		{"not an event", &Message{Type: MsgRunCommand, Payload: []byte(`[]`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent(tt.msg)
			if !errors.Is(err, ErrMalformedEvent) {
				t.Errorf("DecodeEvent() error = %v, want ErrMalformedEvent", err)
			}
		})
	}
}
