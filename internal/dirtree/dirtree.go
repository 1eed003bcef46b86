// Package dirtree holds the in-memory directory tree produced by a scan.
// A tree is built by a single goroutine, finalized directory by directory,
// and is read-only afterwards, so it can be shared freely between the chart
// calculator, the search engine and the report builder.
package dirtree

import "sort"

// FileEntry is a weight cluster: one or more files in the same directory
// sharing an mtime, weighted by their total byte count.
type FileEntry struct {
	Size int64
	Time int64
}

// Dir is one directory node. The root owns the entire subtree; parent links
// are navigation aids only.
type Dir struct {
	name        string
	files       []FileEntry
	subdirs     []*Dir
	parent      *Dir
	parentPos   int
	filesSize   int64
	subtreeSize int64
}

// New creates a directory node. The root carries the full user-supplied
// path; children carry a single path component.
func New(name string) *Dir {
	return &Dir{name: name}
}

// AppendFile adds a file to this directory and propagates its size into
// every ancestor's subtree total. Entries sharing the mtime of the previous
// append are coalesced into one weight cluster. Only valid during scan,
// before Finalize.
func (d *Dir) AppendFile(size, time int64) {
	if n := len(d.files); n > 0 && d.files[n-1].Time == time {
		d.files[n-1].Size += size
	} else {
		d.files = append(d.files, FileEntry{Size: size, Time: time})
	}
	d.filesSize += size
	for p := d; p != nil; p = p.parent {
		p.subtreeSize += size
	}
}

// AppendChild attaches child as the last subdirectory of d and propagates
// the child's subtree total up the parent chain. The child must not already
// have a parent.
func (d *Dir) AppendChild(child *Dir) {
	if child.parent != nil {
		panic("dirtree: AppendChild of an already attached node")
	}
	d.subdirs = append(d.subdirs, child)
	child.parent = d
	child.parentPos = len(d.subdirs) - 1
	for p := d; p != nil; p = p.parent {
		p.subtreeSize += child.subtreeSize
	}
}

// Finalize sorts this directory's files by ascending mtime. It must run
// once per directory, after all direct files have been appended and before
// any read traversal. No appends to the node are allowed afterwards.
func (d *Dir) Finalize() {
	sort.Slice(d.files, func(i, j int) bool {
		return d.files[i].Time < d.files[j].Time
	})
}

// Name returns the path component, or the full root path for the root.
func (d *Dir) Name() string { return d.name }

// Parent returns the containing node, or nil for the root.
func (d *Dir) Parent() *Dir { return d.parent }

// ParentPos returns this node's index within its parent's subdirectories.
func (d *Dir) ParentPos() int { return d.parentPos }

// NumChildren returns the number of direct subdirectories.
func (d *Dir) NumChildren() int { return len(d.subdirs) }

// Child returns the i-th subdirectory in insertion order.
func (d *Dir) Child(i int) *Dir { return d.subdirs[i] }

// NumFiles returns the number of direct weight clusters.
func (d *Dir) NumFiles() int { return len(d.files) }

// Files returns the direct file entries. Callers must not mutate the slice.
func (d *Dir) Files() []FileEntry { return d.files }

// FilesSize returns the byte total of direct files only.
func (d *Dir) FilesSize() int64 { return d.filesSize }

// SubtreeSize returns the byte total of every file reachable from this
// node, including its own.
func (d *Dir) SubtreeSize() int64 { return d.subtreeSize }
