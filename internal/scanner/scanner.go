// Package scanner walks a directory subtree and builds the dirtree model.
// A scan runs on its own goroutine, streams progress through polled
// counters, and delivers the finished root atomically: callers get either
// the complete tree or nothing.
package scanner

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fenilsonani/dirage/internal/dirtree"
)

const pathSeparator = os.PathSeparator

// Scan is the future of one in-flight scan.
type Scan struct {
	cancel   context.CancelFunc
	done     chan struct{}
	counters counters
	tree     *dirtree.Dir
	err      error
}

// Done returns a channel closed when the scan has finished, failed or
// observed cancellation.
func (s *Scan) Done() <-chan struct{} { return s.done }

// Wait blocks until the scan completes. A cancelled scan returns
// context.Canceled and no tree.
func (s *Scan) Wait() (*dirtree.Dir, error) {
	<-s.done
	return s.tree, s.err
}

// Cancel requests the worker to stop at its next checkpoint and blocks
// until it has quiesced.
func (s *Scan) Cancel() {
	s.cancel()
	<-s.done
}

// Progress returns a consistent snapshot of the scan counters. Safe to
// call from any goroutine at any time.
func (s *Scan) Progress() Progress {
	return s.counters.snapshot()
}

// Service runs at most one scan at a time. Starting a new scan cancels the
// previous one first.
type Service struct {
	mu      sync.Mutex
	current *Scan
}

// NewService creates a scanner service.
func NewService() *Service {
	return &Service{}
}

// IsScanning reports whether a scan is currently in flight.
func (s *Service) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	select {
	case <-s.current.done:
		return false
	default:
		return true
	}
}

// Start begins scanning path and returns the scan handle immediately.
func (s *Service) Start(path string) *Scan {
	s.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	scan := &Scan{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.current = scan
	s.mu.Unlock()

	go scan.run(ctx, path)
	return scan
}

// Cancel cancels any in-flight scan and waits for its worker to return.
func (s *Service) Cancel() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current != nil {
		current.Cancel()
	}
}

// run drives the walk and resolves the future.
func (scan *Scan) run(ctx context.Context, rootPath string) {
	defer close(scan.done)
	defer func() {
		if r := recover(); r != nil {
			scan.tree = nil
			scan.err = fmt.Errorf("scan of %s failed: %v", rootPath, r)
		}
	}()

	tree, err := scan.walk(ctx, rootPath)
	if err != nil {
		scan.tree = nil
		scan.err = err
		return
	}
	scan.tree = tree
}

// frame pairs a tree node with its path chain on the explicit walk stack.
type frame struct {
	node *dirtree.Dir
	el   *pathElement
}

// walk is an iterative traversal over an explicit stack: every directory's
// entries are consumed in one visit, subdirectories are pushed for later.
// Per-entry I/O failures only bump the error counter; the walk keeps going.
func (scan *Scan) walk(ctx context.Context, rootPath string) (*dirtree.Dir, error) {
	pool := newElementPool()
	root := dirtree.New(rootPath)
	stack := []frame{{node: root, el: pool.alloc(rootPath, nil)}}

	// One path buffer for the whole walk; it is rebuilt per directory and
	// trimmed back to the directory prefix for each entry.
	buf := make([]byte, 0, 256)

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf = top.el.appendPath(buf[:0])
		prefixLen := len(buf)

		dir, err := os.Open(string(buf[:prefixLen-1]))
		if err != nil {
			scan.counters.incrErrors()
			top.el.release()
			continue
		}

		names, readErr := dir.Readdirnames(-1)
		if readErr != nil {
			scan.counters.incrErrors()
		}
		for _, name := range names {
			if ctx.Err() != nil {
				dir.Close()
				top.el.release()
				return nil, ctx.Err()
			}

			buf = append(buf[:prefixLen], name...)
			info, err := os.Lstat(string(buf))
			if err != nil {
				scan.counters.incrErrors()
				continue
			}

			switch mode := info.Mode(); {
			case mode.IsDir():
				scan.counters.incrDirs()
				child := dirtree.New(name)
				top.node.AppendChild(child)
				stack = append(stack, frame{node: child, el: pool.alloc(name, top.el)})
			case mode.IsRegular():
				scan.counters.incrFiles()
				top.node.AppendFile(info.Size(), info.ModTime().Unix())
			default:
				// Symlinks, devices, sockets and pipes are not followed.
				scan.counters.incrSkipped()
			}
		}

		top.node.Finalize()
		dir.Close()
		top.el.release()
	}
	return root, nil
}
