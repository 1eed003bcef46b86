package dirtree

// Iter traverses every FileEntry reachable from one node, including all
// descendants, in ascending mtime order. It is lazy, single-pass and not
// restartable.
//
// At construction one child iterator is built per subdirectory, recursively.
// Non-exhausted children sit in a contiguous min-heap keyed by the time of
// their current front entry, while the node's own files advance through a
// separate cursor. Each step takes the smaller of the two fronts; a direct
// file wins ties. Exhausted children are dropped from the heap, so heap
// memory is bounded by the number of directories in the subtree.
type Iter struct {
	tree *Dir
	pos  int
	subs []*Iter
	cur  FileEntry
	ok   bool
}

// NewIter creates an iterator over the subtree rooted at d. The iterator is
// positioned on the first entry; call Next repeatedly to consume.
func NewIter(d *Dir) *Iter {
	it := &Iter{tree: d}
	if d == nil {
		return it
	}
	if n := len(d.subdirs); n > 0 {
		it.subs = make([]*Iter, 0, n)
		for _, sub := range d.subdirs {
			child := NewIter(sub)
			if child.ok {
				it.subs = append(it.subs, child)
				it.siftUp(len(it.subs) - 1)
			}
		}
	}
	it.advance()
	return it
}

// Next returns the current entry and advances. The second result is false
// once the subtree is exhausted.
func (it *Iter) Next() (FileEntry, bool) {
	if !it.ok {
		return FileEntry{}, false
	}
	e := it.cur
	it.advance()
	return e, true
}

// advance positions the iterator on the next entry in ascending time order,
// or marks it exhausted.
func (it *Iter) advance() {
	if len(it.subs) > 0 {
		best := it.subs[0]
		if it.pos < len(it.tree.files) && it.tree.files[it.pos].Time <= best.cur.Time {
			it.cur = it.tree.files[it.pos]
			it.pos++
			it.ok = true
			return
		}
		it.cur = best.cur
		it.ok = true
		best.advance()
		if best.ok {
			it.siftDown(0)
		} else {
			last := len(it.subs) - 1
			it.subs[0] = it.subs[last]
			it.subs[last] = nil
			it.subs = it.subs[:last]
			if len(it.subs) > 0 {
				it.siftDown(0)
			}
		}
		return
	}
	if it.pos < len(it.tree.files) {
		it.cur = it.tree.files[it.pos]
		it.pos++
		it.ok = true
		return
	}
	it.ok = false
}

func (it *Iter) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if it.subs[parent].cur.Time <= it.subs[i].cur.Time {
			return
		}
		it.subs[parent], it.subs[i] = it.subs[i], it.subs[parent]
		i = parent
	}
}

func (it *Iter) siftDown(i int) {
	n := len(it.subs)
	for {
		smallest := i
		if l := 2*i + 1; l < n && it.subs[l].cur.Time < it.subs[smallest].cur.Time {
			smallest = l
		}
		if r := 2*i + 2; r < n && it.subs[r].cur.Time < it.subs[smallest].cur.Time {
			smallest = r
		}
		if smallest == i {
			return
		}
		it.subs[i], it.subs[smallest] = it.subs[smallest], it.subs[i]
		i = smallest
	}
}
