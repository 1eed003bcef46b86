// Package report aggregates a scanned tree into a recursive document that
// pairs every directory with its subtree and direct-files age charts, and
// serialises it to JSON, YAML or a human-readable summary.
package report

import (
	"context"
	"fmt"

	"github.com/fenilsonani/dirage/internal/agechart"
	"github.com/fenilsonani/dirage/internal/dirtree"
)

// Node is one directory entry of the report document. Charts are
// serialised as [min, p5, p25, p50, p75, p95, max].
type Node struct {
	Name         string   `json:"name" yaml:"name"`
	NumFiles     int      `json:"numFiles" yaml:"numFiles"`
	SubtreeSize  int64    `json:"subtreeSize" yaml:"subtreeSize"`
	FilesSize    int64    `json:"filesSize" yaml:"filesSize"`
	SubtreeChart [7]int64 `json:"subtreeChart" yaml:"subtreeChart,flow"`
	FilesChart   [7]int64 `json:"filesChart" yaml:"filesChart,flow"`
	Subdirs      []*Node  `json:"subdirs,omitempty" yaml:"subdirs,omitempty"`
}

// Job is the future of one report generation.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
	doc    *Node
	err    error
}

// Done returns a channel closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job completes and returns the document. A
// cancelled job, or one whose calculator tasks failed, returns an error
// and no document.
func (j *Job) Wait() (*Node, error) {
	<-j.done
	return j.doc, j.err
}

// Cancel requests the job to stop and blocks until it has returned.
func (j *Job) Cancel() {
	j.cancel()
	<-j.done
}

// Builder generates report documents against a chart calculator.
type Builder struct {
	calc *agechart.Calculator
}

// NewBuilder creates a builder using calc for all chart work.
func NewBuilder(calc *agechart.Calculator) *Builder {
	return &Builder{calc: calc}
}

// Generate starts building the report for the subtree rooted at tree and
// returns immediately.
func (b *Builder) Generate(tree *dirtree.Dir) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	j := &Job{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(j.done)
		doc, err := b.compose(ctx, tree)
		if err != nil {
			j.err = err
			return
		}
		j.doc = doc
	}()
	return j
}

// compose walks the tree depth-first. Both calculator tasks for a node are
// issued before recursing so child computations overlap with the parent's
// reductions. Any failure fails the whole report.
func (b *Builder) compose(ctx context.Context, tree *dirtree.Dir) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subtreeTask := b.calc.CalculateSubtree(tree)
	filesTask := b.calc.CalculateFiles(tree)

	var subdirs []*Node
	for i := 0; i < tree.NumChildren(); i++ {
		child, err := b.compose(ctx, tree.Child(i))
		if err != nil {
			subtreeTask.Cancel()
			filesTask.Cancel()
			return nil, err
		}
		subdirs = append(subdirs, child)
	}

	subtreeChart, err := subtreeTask.Wait()
	if err != nil {
		filesTask.Cancel()
		return nil, fmt.Errorf("subtree chart for %s: %w", tree.Name(), err)
	}
	filesChart, err := filesTask.Wait()
	if err != nil {
		return nil, fmt.Errorf("files chart for %s: %w", tree.Name(), err)
	}

	return &Node{
		Name:         tree.Name(),
		NumFiles:     tree.NumFiles(),
		SubtreeSize:  tree.SubtreeSize(),
		FilesSize:    tree.FilesSize(),
		SubtreeChart: subtreeChart.Slice(),
		FilesChart:   filesChart.Slice(),
		Subdirs:      subdirs,
	}, nil
}
