package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSetOutputWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Info().Int("instance", 2).Msg("Assigned")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "Assigned" {
		t.Errorf("msg = %v, want Assigned", line["msg"])
	}
	if line["instance"] != float64(2) {
		t.Errorf("instance = %v, want 2", line["instance"])
	}
	if _, ok := line["ts"]; !ok {
		t.Error("missing ts field")
	}
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetDebug(false)

	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	SetDebug(true)
	Debug().Msg("shown")
	if buf.Len() == 0 {
		t.Error("debug line not written after SetDebug(true)")
	}
}
