// Package search streams every directory node whose name matches a
// pattern. The tree is enumerated breadth-first by a fixed pool of
// work-stealing workers, so wide trees fan out across all CPUs without a
// global queue.
package search

import (
	"runtime"
	"sync/atomic"

	"github.com/fenilsonani/dirage/internal/dirtree"
)

// queueCapacity bounds each worker's local queue. Children that do not fit
// are processed recursively inline, which keeps memory bounded on very
// wide directories.
const queueCapacity = 32

// resultBuffer decouples workers from the consumer.
const resultBuffer = 256

// Search is the handle of one in-flight search.
type Search struct {
	results  chan *dirtree.Dir
	done     chan struct{}
	cancelCh chan struct{}
	canceled atomic.Bool
	busy     atomic.Int64
	exit     atomic.Int64
	matched  atomic.Int64
	workers  []*worker
}

// Results returns the stream of matching nodes. The channel is closed
// exactly once, after every worker has stopped producing.
func (s *Search) Results() <-chan *dirtree.Dir { return s.results }

// Done returns a channel closed when the search has completed or fully
// observed cancellation.
func (s *Search) Done() <-chan struct{} { return s.done }

// Wait blocks until the search completes.
func (s *Search) Wait() {
	<-s.done
}

// Count returns the number of matches emitted so far; stable once Done is
// closed.
func (s *Search) Count() int64 { return s.matched.Load() }

// Cancel requests a graceful stop and blocks until all workers returned.
func (s *Search) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		close(s.cancelCh)
	}
	<-s.done
}

// Service runs at most one search at a time; starting a new one cancels
// the previous.
type Service struct {
	numWorkers int
	current    *Search
}

// NewService creates a search service. Worker counts below one select one
// worker per hardware thread.
func NewService(workers int) *Service {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Service{numWorkers: workers}
}

// Start begins matching pattern against every node of tree, including the
// root. A malformed pattern fails immediately with ErrInvalidPattern and
// no partial results.
func (s *Service) Start(pattern string, tree *dirtree.Dir, mode Mode) (*Search, error) {
	m, err := newMatcher(pattern, mode)
	if err != nil {
		return nil, err
	}
	s.Cancel()

	sr := &Search{
		results:  make(chan *dirtree.Dir, resultBuffer),
		done:     make(chan struct{}),
		cancelCh: make(chan struct{}),
		workers:  make([]*worker, s.numWorkers),
	}
	sr.exit.Store(int64(s.numWorkers))

	for i := range sr.workers {
		var seed *dirtree.Dir
		if i == 0 {
			seed = tree
		}
		sr.workers[i] = newWorker(i, sr, m, seed)
	}
	for _, w := range sr.workers {
		go w.run()
	}
	s.current = sr
	return sr, nil
}

// Cancel stops the in-flight search, if any, and waits for quiescence.
func (s *Service) Cancel() {
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}
