package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/dirage/internal/agechart"
	"github.com/fenilsonani/dirage/internal/dirmodel"
	"github.com/fenilsonani/dirage/internal/dirtree"
	"github.com/fenilsonani/dirage/internal/report"
	"github.com/fenilsonani/dirage/internal/scanner"
	"github.com/fenilsonani/dirage/internal/search"
)

// tickMsg drives the 1 Hz progress poll while a scan runs.
type tickMsg time.Time

// scanDoneMsg carries the resolved scan future. The handle identifies
// which scan resolved, so a late message from a superseded scan is
// ignored.
type scanDoneMsg struct {
	scan *scanner.Scan
	tree *dirtree.Dir
	err  error
}

// chartMsg carries one completed chart calculation.
type chartMsg struct {
	ref   dirmodel.Ref
	chart agechart.AgeChart
	err   error
}

// searchHitMsg carries one streamed search match.
type searchHitMsg struct {
	node *dirtree.Dir
}

// searchDoneMsg signals stream completion with the final match count.
type searchDoneMsg struct {
	count int64
}

// reportDoneMsg carries the outcome of a report generation + save.
type reportDoneMsg struct {
	path string
	err  error
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitScanCmd(scan *scanner.Scan) tea.Cmd {
	return func() tea.Msg {
		tree, err := scan.Wait()
		return scanDoneMsg{scan: scan, tree: tree, err: err}
	}
}

func chartCmd(task *agechart.Task, ref dirmodel.Ref) tea.Cmd {
	return func() tea.Msg {
		chart, err := task.Wait()
		return chartMsg{ref: ref, chart: chart, err: err}
	}
}

// nextHitCmd pulls one result from the search stream; it re-arms itself
// from Update until the stream closes.
func nextHitCmd(s *search.Search) tea.Cmd {
	return func() tea.Msg {
		node, ok := <-s.Results()
		if !ok {
			return searchDoneMsg{count: s.Count()}
		}
		return searchHitMsg{node: node}
	}
}

func reportCmd(job *report.Job, path string, format report.OutputFormat) tea.Cmd {
	return func() tea.Msg {
		doc, err := job.Wait()
		if err != nil {
			return reportDoneMsg{path: path, err: err}
		}
		return reportDoneMsg{path: path, err: report.Save(doc, path, format)}
	}
}
