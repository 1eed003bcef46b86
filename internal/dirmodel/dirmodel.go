// Package dirmodel adapts a scanned tree for presentation: it maps tree
// nodes to display columns and roles, caches completed age charts, and
// tracks the min/max whisker range the chart rendering uses as its time
// axis. All methods are called from the UI goroutine only.
package dirmodel

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fenilsonani/dirage/internal/agechart"
	"github.com/fenilsonani/dirage/internal/dirtree"
)

// Column enumerates the display columns.
type Column int

const (
	ColName Column = iota
	ColType
	ColSize
	ColMedianAge
	ColAge
)

// Role enumerates the non-display values the chart rendering queries.
type Role int

const (
	RoleTotalSize Role = iota
	RoleMinAge
	RoleMaxAge
	RoleEntrySize
	RoleSortKey
)

// Target distinguishes a directory row from its virtual "Files" row, which
// represents the direct-files chart of that directory.
type Target int

const (
	TargetItself Target = iota
	TargetFiles
)

// Ref addresses one row: a node plus which of its two charts it shows.
type Ref struct {
	Node   *dirtree.Dir
	Target Target
}

// Headers returns the column titles in column order.
func Headers() []string {
	return []string{"Name", "Type", "Size", "Median Age", "Age"}
}

// Model is the presentation adapter over the current tree.
type Model struct {
	tree      *dirtree.Dir
	charts    map[Ref]agechart.AgeChart
	chartsMin int64
	chartsMax int64
	resetTime time.Time
}

// NewModel creates an adapter with no tree.
func NewModel() *Model {
	m := &Model{}
	m.Reset(nil)
	return m
}

// Reset installs a new tree, dropping the chart cache and the axis
// aggregates. The previous tree must no longer have readers.
func (m *Model) Reset(tree *dirtree.Dir) {
	m.tree = tree
	m.charts = make(map[Ref]agechart.AgeChart)
	m.chartsMin = math.MaxInt64
	m.chartsMax = agechart.Low
	m.resetTime = time.Now()
}

// Tree returns the current tree, or nil before the first scan.
func (m *Model) Tree() *dirtree.Dir { return m.tree }

// Calculated stores a completed chart for ref and widens the axis range.
// Invalid charts are dropped.
func (m *Model) Calculated(ref Ref, chart agechart.AgeChart) {
	if !chart.Valid() {
		return
	}
	m.charts[ref] = chart
	if m.chartsMin > chart.LowerWhisker {
		m.chartsMin = chart.LowerWhisker
	}
	if m.chartsMax < chart.UpperWhisker {
		m.chartsMax = chart.UpperWhisker
	}
}

// Chart returns the cached chart for ref.
func (m *Model) Chart(ref Ref) (agechart.AgeChart, bool) {
	chart, ok := m.charts[ref]
	return chart, ok
}

// IsChartCached reports whether ref already has a chart.
func (m *Model) IsChartCached(ref Ref) bool {
	_, ok := m.charts[ref]
	return ok
}

// ChartsMin returns the smallest lower whisker seen since the last reset;
// the left edge of the time axis.
func (m *Model) ChartsMin() int64 { return m.chartsMin }

// ChartsMax returns the largest upper whisker seen since the last reset;
// the right edge of the time axis.
func (m *Model) ChartsMax() int64 { return m.chartsMax }

// HasFilesRow reports whether node gets a virtual "Files" row beneath its
// subdirectories.
func (m *Model) HasFilesRow(node *dirtree.Dir) bool {
	return node.NumFiles() > 0
}

// RowCount returns the number of rows under node: one per subdirectory
// plus the virtual Files row when the node has direct files.
func (m *Model) RowCount(node *dirtree.Dir) int {
	n := node.NumChildren()
	if m.HasFilesRow(node) {
		n++
	}
	return n
}

// RowAt resolves the i-th row under node.
func (m *Model) RowAt(node *dirtree.Dir, i int) (Ref, bool) {
	if i < node.NumChildren() {
		return Ref{Node: node.Child(i), Target: TargetItself}, true
	}
	if i == node.NumChildren() && m.HasFilesRow(node) {
		return Ref{Node: node, Target: TargetFiles}, true
	}
	return Ref{}, false
}

// Data returns the display string for one cell.
func (m *Model) Data(ref Ref, col Column) string {
	switch col {
	case ColName:
		if ref.Target == TargetFiles {
			return "Files"
		}
		return ref.Node.Name()
	case ColType:
		if ref.Target == TargetFiles {
			return "Files"
		}
		return "Directory"
	case ColSize:
		return humanize.IBytes(uint64(m.size(ref)))
	case ColMedianAge:
		chart, ok := m.charts[ref]
		if !ok || !chart.Valid() {
			return ""
		}
		return strings.TrimSpace(humanize.RelTime(time.Unix(chart.Median, 0), m.resetTime, "", ""))
	default:
		// The Age column is drawn from the cached chart, not from text.
		return ""
	}
}

// RoleValue returns the numeric value behind a role for one row.
func (m *Model) RoleValue(ref Ref, role Role) int64 {
	switch role {
	case RoleTotalSize:
		if m.tree == nil {
			return 0
		}
		return m.tree.SubtreeSize()
	case RoleMinAge:
		return m.chartsMin
	case RoleMaxAge:
		return m.chartsMax
	case RoleEntrySize, RoleSortKey:
		return m.size(ref)
	default:
		return 0
	}
}

// size returns the byte weight a row represents: the node's subtree total,
// or direct files only for the virtual Files row.
func (m *Model) size(ref Ref) int64 {
	if ref.Target == TargetFiles {
		return ref.Node.FilesSize()
	}
	return ref.Node.SubtreeSize()
}
