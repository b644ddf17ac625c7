package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"golang.org/x/sys/unix"

	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/logging"
)

// SocketPattern returns the file name pattern of sway sockets owned by uid,
// e.g. sway-ipc.1000.145042.sock
func SocketPattern(uid int) string {
	return fmt.Sprintf("sway-ipc.%d.*.sock", uid)
}

// DefaultSocketDir returns the runtime directory of the current user
func DefaultSocketDir() string {
	return fmt.Sprintf("/run/user/%d", unix.Getuid())
}

// Discovery finds sway sockets in a runtime directory
type Discovery struct {
	Dir         string
	Interval    time.Duration // Time between rescans
	MaxAttempts int           // Rescans before giving up

	pattern glob.Glob
}

// NewDiscovery creates a discovery for sockets of uid in dir. An empty dir
// means DefaultSocketDir.
func NewDiscovery(dir string, uid int, interval time.Duration, maxAttempts int) (*Discovery, error) {
	if dir == "" {
		dir = DefaultSocketDir()
	}
	g, err := glob.Compile(SocketPattern(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to compile socket pattern: %w", err)
	}
	return &Discovery{
		Dir:         dir,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		pattern:     g,
	}, nil
}

// List returns the matching socket paths, sorted
func (d *Discovery) List() ([]string, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read socket directory: %w", err)
	}

	var sockets []string
	for _, e := range entries {
		if e.IsDir() || !d.pattern.Match(e.Name()) {
			continue
		}
		sockets = append(sockets, filepath.Join(d.Dir, e.Name()))
	}
	sort.Strings(sockets)
	return sockets, nil
}

// Snapshot returns the current sockets as a set
func (d *Discovery) Snapshot() (map[string]bool, error) {
	sockets, err := d.List()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(sockets))
	for _, s := range sockets {
		set[s] = true
	}
	return set, nil
}

// WaitForNew waits for a socket missing from before to appear and returns
// the first one in sorted order. The directory is rescanned every Interval
// and whenever it changes; after MaxAttempts interval rescans without a new
// socket it fails with a discovery timeout.
func (d *Discovery) WaitForNew(ctx context.Context, before map[string]bool) (string, error) {
	var events <-chan fsnotify.Event
	var watchErrs <-chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Debug().Err(err).Msg("Socket watcher unavailable, polling only")
	} else {
		defer watcher.Close()
		if err := watcher.Add(d.Dir); err != nil {
			logging.Debug().Err(err).Str("dir", d.Dir).Msg("Cannot watch socket directory, polling only")
		} else {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	attempts := 0
	for {
		sockets, err := d.List()
		if err != nil {
			return "", err
		}
		for _, s := range sockets {
			if !before[s] {
				logging.Info().Str("socket", s).Int("attempts", attempts).Msg("Found window manager socket")
				return s, nil
			}
		}

		if attempts >= d.MaxAttempts {
			return "", perrors.DiscoveryTimeout("wait for socket",
				fmt.Errorf("no new socket in %s after %d attempts", d.Dir, attempts))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			attempts++
		case event, ok := <-events:
			// Any change rescans without using up an attempt
			if !ok {
				events = nil
			} else {
				logging.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Socket directory changed")
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			} else {
				logging.Warn().Err(err).Msg("Socket watcher error")
			}
		}
	}
}
