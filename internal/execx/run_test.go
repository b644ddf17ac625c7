package execx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/yourusername/partygrid/internal/errors"
)

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		wantCode int
		wantOK   bool
	}{
		{"success", "true", 0, true},
		{"failure", "exit 3", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Shell(context.Background(), tt.command)
			if r.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", r.Code, tt.wantCode)
			}
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", r.OK(), tt.wantOK)
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := Run(ctx, "sleep", "5")
	if r.OK() {
		t.Fatal("expected sleep to be killed")
	}
}

func TestCapture(t *testing.T) {
	out, r := Capture(context.Background(), "sh", "-c", "echo hello")
	if !r.OK() {
		t.Fatalf("Capture() failed: %v", r.Err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("out = %q, want hello", out)
	}

	_, r = Capture(context.Background(), "sh", "-c", "echo broken >&2; exit 2")
	if r.Code != 2 {
		t.Errorf("Code = %d, want 2", r.Code)
	}
	if r.Err == nil || !strings.Contains(r.Err.Error(), "broken") {
		t.Errorf("Err = %v, want stderr text", r.Err)
	}
}

func TestStartTerminate(t *testing.T) {
	p, err := Start(nil, "sleep", "30")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := p.Terminate(); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process still running after Terminate")
	}

	// Terminating an exited process is a no-op
	if err := p.Terminate(); err != nil {
		t.Errorf("second Terminate() error = %v", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(nil, "partygrid-no-such-binary")
	if !perrors.Is(err, perrors.ErrToolUnavailable) {
		t.Errorf("Start() error = %v, want tool unavailable", err)
	}
}

func TestLookPath(t *testing.T) {
	if _, err := LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) error = %v", err)
	}
	_, err := LookPath("partygrid-no-such-binary")
	if !perrors.Is(err, perrors.ErrToolUnavailable) {
		t.Errorf("LookPath() error = %v, want tool unavailable", err)
	}
}

func TestExecutable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	data := filepath.Join(dir, "data.txt")
	os.WriteFile(script, []byte("#!/bin/sh\n"), 0755)
	os.WriteFile(data, []byte("x"), 0644)

	if !Executable(script) {
		t.Error("Executable(script) = false")
	}
	if os.Geteuid() != 0 && Executable(data) {
		t.Error("Executable(data) = true")
	}
	if Executable(filepath.Join(dir, "missing")) {
		t.Error("Executable(missing) = true")
	}
}
