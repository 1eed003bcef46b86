package search

import (
	"runtime"
	"sync/atomic"

	"github.com/fenilsonani/dirage/internal/dirtree"
)

// worker owns a bounded FIFO of tree nodes behind a single-word spinlock,
// contended only during steals. Worker 0 starts seeded with the root; the
// rest recruit themselves by stealing.
type worker struct {
	num    int
	shared *Search
	match  matcher

	spin int32
	buf  [queueCapacity]*dirtree.Dir
	head int
	size int

	// SplitMix64 state for victim selection, seeded by worker index.
	rng uint64
}

func newWorker(num int, shared *Search, match matcher, seed *dirtree.Dir) *worker {
	w := &worker{num: num, shared: shared, match: match, rng: uint64(num)}
	if seed != nil {
		w.buf[0] = seed
		w.size = 1
		shared.busy.Add(1)
	}
	return w
}

func (w *worker) run() {
	for {
		w.lock()
		if w.shared.canceled.Load() {
			w.unlock()
			w.gracefulEnd()
			return
		}
		if w.size > 0 {
			t := w.dequeue()
			w.unlock()
			w.process(t)
			w.processChildren(t)
			w.lock()
			if w.size == 0 {
				w.shared.busy.Add(-1)
			}
			w.unlock()
			continue
		}
		w.unlock()

		if t := w.steal(); t != nil {
			w.process(t)
			w.processChildren(t)
			w.lock()
			if w.size == 0 {
				w.shared.busy.Add(-1)
			}
			w.unlock()
			continue
		}

		if w.shared.busy.Load() == 0 {
			w.gracefulEnd()
			return
		}
		runtime.Gosched()
	}
}

// process emits the node if its name matches.
func (w *worker) process(t *dirtree.Dir) {
	if w.match.matches(t.Name()) {
		select {
		case w.shared.results <- t:
			w.shared.matched.Add(1)
		case <-w.shared.cancelCh:
		}
	}
}

// processChildren enqueues each child locally while there is capacity and
// otherwise walks the child's subtree recursively inline.
func (w *worker) processChildren(t *dirtree.Dir) {
	n := t.NumChildren()
	for i := 0; i < n; i++ {
		child := t.Child(i)
		w.lock()
		if w.size < queueCapacity {
			w.enqueue(child)
			w.unlock()
		} else {
			w.unlock()
			w.process(child)
			w.processChildren(child)
		}
	}
}

// steal picks a uniformly random victim other than this worker and takes
// one node from it.
func (w *worker) steal() *dirtree.Dir {
	n := len(w.shared.workers)
	if n < 2 {
		return nil
	}
	victim := w.num
	for victim == w.num {
		victim = int(w.nextRand() % uint64(n))
	}
	return w.shared.workers[victim].stealFrom()
}

// stealFrom takes one node from this worker's queue on behalf of a thief.
// The last item is never stolen: taking it would not recruit an additional
// busy worker. A successful steal counts the thief as busy.
func (w *worker) stealFrom() *dirtree.Dir {
	w.lock()
	if w.size > 1 {
		t := w.dequeue()
		w.shared.busy.Add(1)
		w.unlock()
		return t
	}
	w.unlock()
	return nil
}

// gracefulEnd retires this worker; the one that brings the exit counter to
// zero closes the stream, so it closes exactly once and only after every
// worker has stopped producing.
func (w *worker) gracefulEnd() {
	if w.shared.exit.Add(-1) == 0 {
		close(w.shared.results)
		close(w.shared.done)
	}
}

func (w *worker) enqueue(t *dirtree.Dir) {
	w.buf[(w.head+w.size)%queueCapacity] = t
	w.size++
}

func (w *worker) dequeue() *dirtree.Dir {
	t := w.buf[w.head]
	w.buf[w.head] = nil
	w.head = (w.head + 1) % queueCapacity
	w.size--
	return t
}

func (w *worker) lock() {
	for !atomic.CompareAndSwapInt32(&w.spin, 0, 1) {
		runtime.Gosched()
	}
}

func (w *worker) unlock() {
	atomic.StoreInt32(&w.spin, 0)
}

// nextRand advances the SplitMix64 state.
func (w *worker) nextRand() uint64 {
	w.rng += 0x9E3779B97F4A7C15
	z := w.rng
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
