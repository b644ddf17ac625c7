// Package execx runs the external programs a launch session depends on.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/logging"
)

// Result is the outcome of a finished command
type Result struct {
	Code int
	Err  error
}

// OK reports whether the command exited with status 0
func (r Result) OK() bool {
	return r.Err == nil && r.Code == 0
}

func result(ctx context.Context, err error) Result {
	code := 0
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		} else if ctx.Err() == context.DeadlineExceeded {
			code = 124
		} else {
			code = 1
		}
	}
	return Result{Code: code, Err: err}
}

func trace(name string, args []string) {
	logging.Debug().Str("cmd", name).Strs("args", args).Msg("Running command")
}

// Run runs a command attached to the terminal and waits for it
func Run(ctx context.Context, name string, args ...string) Result {
	trace(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return result(ctx, cmd.Run())
}

// Shell runs a command line through sh -c and waits for it
func Shell(ctx context.Context, command string) Result {
	return Run(ctx, "sh", "-c", command)
}

// Capture runs a command and returns its stdout
func Capture(ctx context.Context, name string, args ...string) (string, Result) {
	trace(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		err = fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return string(out), result(ctx, err)
}

// Process is a command running in the background in its own process group
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Start launches a command in a new process group without waiting for it.
// Output goes to out, or is discarded when out is nil.
func Start(out io.Writer, name string, args ...string) (*Process, error) {
	trace(name, args)
	if out == nil {
		out = io.Discard
	}

	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, perrors.ToolUnavailable("start "+name, err)
	}

	p := &Process{cmd: cmd, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		logging.Debug().Str("cmd", name).Err(err).Msg("Background process exited")
		close(p.done)
	}()

	logging.Debug().Str("cmd", name).Int("pid", cmd.Process.Pid).Msg("Started background process")
	return p, nil
}

// Pid returns the process id, which is also the process group id
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed when the process exits
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Terminate sends SIGTERM to the whole process group. A group that is
// already gone is not an error.
func (p *Process) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	err := unix.Kill(-p.Pid(), unix.SIGTERM)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("failed to terminate process group %d: %w", p.Pid(), err)
	}
	logging.Info().Int("pgid", p.Pid()).Msg("Terminated process group")
	return nil
}

// LookPath finds a binary on PATH
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", perrors.ToolUnavailable("look up "+name, err)
	}
	return path, nil
}

// Executable reports whether path exists and may be executed by this process
func Executable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}
