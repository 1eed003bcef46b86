package scanner

import (
	"runtime"
	"sync/atomic"
)

// Progress is a snapshot of the scan counters. Counters only ever grow
// while a scan runs.
type Progress struct {
	NumFiles   int64
	NumDirs    int64
	NumSkipped int64
	NumErrors  int64
}

// counters guards the four progress integers with a single-word CAS
// spinlock. One writer (the scan worker) and one reader (the UI on a
// timer) contend on it, so a spinlock suffices.
type counters struct {
	state int32
	p     Progress
}

func (c *counters) lock() {
	for !atomic.CompareAndSwapInt32(&c.state, 0, 1) {
		runtime.Gosched()
	}
}

func (c *counters) unlock() {
	atomic.StoreInt32(&c.state, 0)
}

func (c *counters) incrFiles() {
	c.lock()
	c.p.NumFiles++
	c.unlock()
}

func (c *counters) incrDirs() {
	c.lock()
	c.p.NumDirs++
	c.unlock()
}

func (c *counters) incrSkipped() {
	c.lock()
	c.p.NumSkipped++
	c.unlock()
}

func (c *counters) incrErrors() {
	c.lock()
	c.p.NumErrors++
	c.unlock()
}

func (c *counters) snapshot() Progress {
	c.lock()
	p := c.p
	c.unlock()
	return p
}
