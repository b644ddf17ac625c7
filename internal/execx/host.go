package execx

import (
	"context"
	"fmt"
	"io"
)

// Host runs commands on the local machine. It is the production
// implementation of the runner the session layer depends on.
type Host struct {
	// Output receives the output of background processes
	Output io.Writer
}

// Shell runs command through sh -c
func (h Host) Shell(ctx context.Context, command string) error {
	if r := Shell(ctx, command); !r.OK() {
		return fmt.Errorf("command exited with status %d: %w", r.Code, r.Err)
	}
	return nil
}

// Capture runs name with args and returns its stdout
func (h Host) Capture(ctx context.Context, name string, args ...string) (string, error) {
	out, r := Capture(ctx, name, args...)
	if !r.OK() {
		return out, fmt.Errorf("%s exited with status %d: %w", name, r.Code, r.Err)
	}
	return out, nil
}

// Start starts name in the background
func (h Host) Start(name string, args ...string) (Background, error) {
	p, err := Start(h.Output, name, args...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LookPath finds name on PATH
func (h Host) LookPath(name string) (string, error) {
	return LookPath(name)
}

// Executable reports whether path may be executed
func (h Host) Executable(path string) bool {
	return Executable(path)
}

// Background is a running process that can be waited on and stopped
type Background interface {
	Done() <-chan struct{}
	Terminate() error
}
