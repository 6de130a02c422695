package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/kiosk/pkg/model"
)

// FileSource serves a state snapshot from a local JSON file. Media paths
// resolve against the file's directory.
type FileSource struct {
	path     string
	root     string
	throttle time.Duration
}

// NewFileSource accepts a plain path or a file:// URL.
func NewFileSource(target string) (*FileSource, error) {
	path := strings.TrimPrefix(target, "file://")
	if path == "" {
		return nil, errors.New("remote: empty file source")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("remote: resolve %s: %w", path, err)
	}
	return &FileSource{path: abs, root: filepath.Dir(abs), throttle: 100 * time.Millisecond}, nil
}

// IsFileTarget reports whether target names a local state file.
func IsFileTarget(target string) bool {
	return strings.HasPrefix(target, "file://")
}

// Path is the watched state file.
func (s *FileSource) Path() string { return s.path }

// Fetch reads and decodes the state file.
func (s *FileSource) Fetch(ctx context.Context) (model.State, error) {
	if err := ctx.Err(); err != nil {
		return model.State{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.State{}, fmt.Errorf("remote: read %s: %w", s.path, ErrNotFound)
		}
		return model.State{}, fmt.Errorf("remote: read %s: %w", s.path, err)
	}
	return model.DecodeState(data)
}

// Media reads a file below the state file's directory.
func (s *FileSource) Media(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if !strings.HasPrefix(full, s.root+string(os.PathSeparator)) {
		return nil, fmt.Errorf("remote: media %s: %w", path, ErrNotFound)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remote: media %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("remote: media %s: %w", path, err)
	}
	return data, nil
}

// Listen watches the state file and emits one refresh notification per
// burst of writes. The channel closes when ctx ends or the watcher fails.
func (s *FileSource) Listen(ctx context.Context) (<-chan Notification, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("remote: create watcher: %w", err)
	}
	if err := watcher.Add(s.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("remote: watch %s: %w", s.root, err)
	}

	out := make(chan Notification, 8)
	go func() {
		defer close(out)
		defer watcher.Close()

		send := func(n Notification) {
			select {
			case out <- n:
			default:
				// a pending refresh already covers this one
			}
		}
		th := newThrottle(s.throttle)
		defer th.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				th.Enqueue(Notification{Type: "refresh", Reason: "watch-error"}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != s.path {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				th.Enqueue(Notification{Type: "refresh", Reason: "file"}, send)
			}
		}
	}()
	return out, nil
}

// throttle coalesces a burst of notifications into the last one.
type throttle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending Notification
	delay   time.Duration
	stopped bool
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) Enqueue(n Notification, send func(Notification)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = n
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush sends under the lock so nothing is delivered once Stop returns;
// send must not block.
func (t *throttle) flush(send func(Notification)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer = nil
	send(t.pending)
}

func (t *throttle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
