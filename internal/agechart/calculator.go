package agechart

import (
	"context"
	"runtime"
	"sync"

	"github.com/fenilsonani/dirage/internal/dirtree"
)

// Task is the future of one chart calculation.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	chart  AgeChart
	err    error
}

// Done returns a channel closed when the task has finished or observed
// cancellation.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task completes and returns its chart. A cancelled
// task returns context.Canceled and no chart.
func (t *Task) Wait() (AgeChart, error) {
	<-t.done
	return t.chart, t.err
}

// Cancel requests the task to stop and blocks until it has returned.
func (t *Task) Cancel() {
	t.cancel()
	<-t.done
}

// Calculator runs chart calculations on a shared worker pool and keeps a
// registry of in-flight tasks so they can be cancelled wholesale before a
// tree is replaced.
type Calculator struct {
	mu    sync.Mutex
	tasks map[*Task]struct{}
	sem   chan struct{}
}

// NewCalculator creates a calculator with the given concurrency. A value
// below one selects one worker per CPU.
func NewCalculator(workers int) *Calculator {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Calculator{
		tasks: make(map[*Task]struct{}),
		sem:   make(chan struct{}, workers),
	}
}

// CalculateSubtree computes the chart over every file reachable from node,
// using the ascending-time subtree iterator. The total weight is the node's
// subtree size.
func (c *Calculator) CalculateSubtree(node *dirtree.Dir) *Task {
	return c.run(node.SubtreeSize(), func() func() (dirtree.FileEntry, bool) {
		it := dirtree.NewIter(node)
		return it.Next
	})
}

// CalculateFiles computes the chart over the node's direct files only.
func (c *Calculator) CalculateFiles(node *dirtree.Dir) *Task {
	files := node.Files()
	return c.run(node.FilesSize(), func() func() (dirtree.FileEntry, bool) {
		pos := 0
		return func() (dirtree.FileEntry, bool) {
			if pos >= len(files) {
				return dirtree.FileEntry{}, false
			}
			e := files[pos]
			pos++
			return e, true
		}
	})
}

// CancelAll cancels every in-flight task and blocks until each one has
// observed cancellation and finished.
func (c *Calculator) CancelAll() {
	c.mu.Lock()
	pending := make([]*Task, 0, len(c.tasks))
	for t := range c.tasks {
		pending = append(pending, t)
	}
	c.mu.Unlock()

	for _, t := range pending {
		t.Cancel()
	}
}

// run registers a task and posts it to the pool. The sequence constructor
// runs on the worker so that iterator state lives with the reduction.
func (c *Calculator) run(total int64, seq func() func() (dirtree.FileEntry, bool)) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	c.tasks[t] = struct{}{}
	c.mu.Unlock()

	go func() {
		defer close(t.done)
		defer func() {
			c.mu.Lock()
			delete(c.tasks, t)
			c.mu.Unlock()
		}()

		select {
		case c.sem <- struct{}{}:
		case <-ctx.Done():
			t.err = ctx.Err()
			return
		}
		defer func() { <-c.sem }()

		t.chart, t.err = reduce(ctx, seq(), total)
	}()
	return t
}

// reduce performs the weighted percentile scan. Thresholds use truncating
// integer division; each percentile is assigned at the earliest entry whose
// accumulated weight meets its threshold and is never overwritten. Ties on
// small inputs collapsing onto one time are intended.
func reduce(ctx context.Context, next func() (dirtree.FileEntry, bool), total int64) (AgeChart, error) {
	ret := Unset()
	if total == 0 {
		return ret, nil
	}

	lowerWhiskerWeight := total / 20
	lowerQuartileWeight := total / 4
	medianWeight := total / 2
	upperQuartileWeight := total - total/4
	upperWhiskerWeight := total - total/20

	var accumulated int64
	first := true
	for e, ok := next(); ok; e, ok = next() {
		select {
		case <-ctx.Done():
			return Unset(), ctx.Err()
		default:
		}

		if first {
			ret.Min = e.Time
			first = false
		}
		accumulated += e.Size
		if ret.LowerWhisker == Low && accumulated >= lowerWhiskerWeight {
			ret.LowerWhisker = e.Time
		}
		if ret.LowerQuartile == Low && accumulated >= lowerQuartileWeight {
			ret.LowerQuartile = e.Time
		}
		if ret.Median == Low && accumulated >= medianWeight {
			ret.Median = e.Time
		}
		if ret.UpperQuartile == Low && accumulated >= upperQuartileWeight {
			ret.UpperQuartile = e.Time
		}
		if ret.UpperWhisker == Low && accumulated >= upperWhiskerWeight {
			ret.UpperWhisker = e.Time
		}
		ret.Max = e.Time
	}
	return ret, nil
}
