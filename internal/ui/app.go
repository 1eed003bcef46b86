// Package ui implements the interactive terminal frontend: pick a root,
// watch the scan, browse per-directory age charts, search directory names
// and export reports.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/dirage/internal/config"
	"github.com/fenilsonani/dirage/internal/dirmodel"
	"github.com/fenilsonani/dirage/internal/dirtree"
	"github.com/fenilsonani/dirage/internal/report"
	"github.com/fenilsonani/dirage/internal/scanner"
	"github.com/fenilsonani/dirage/internal/search"
	"github.com/fenilsonani/dirage/internal/ui/styles"
)

// viewState represents the current view in the app.
type viewState int

const (
	viewInput viewState = iota
	viewScanning
	viewBrowser
)

// row is one visible line of the tree browser.
type row struct {
	ref   dirmodel.Ref
	depth int
}

// App is the root bubbletea model.
type App struct {
	ctrl *Controller
	cfg  *config.Config

	state viewState

	pathInput textinput.Model
	spin      spinner.Model

	scan      *scanner.Scan
	progress  scanner.Progress
	scanStart time.Time

	rows     []row
	expanded map[*dirtree.Dir]bool
	cursor   int

	searchInput textinput.Model
	searching   bool
	activeFind  *search.Search
	hits        map[*dirtree.Dir]bool
	hitCount    int64

	status string
	errMsg string

	width  int
	height int
}

// NewApp creates the TUI over an existing controller.
func NewApp(ctrl *Controller, cfg *config.Config) *App {
	path := textinput.New()
	path.Placeholder = "/path/to/analyse"
	path.Focus()
	if cfg.LastRoot != "" {
		path.SetValue(cfg.LastRoot)
	}

	find := textinput.New()
	find.Placeholder = "search directories"

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &App{
		ctrl:        ctrl,
		cfg:         cfg,
		state:       viewInput,
		pathInput:   path,
		searchInput: find,
		spin:        s,
		expanded:    make(map[*dirtree.Dir]bool),
		hits:        make(map[*dirtree.Dir]bool),
	}
}

// Init initializes the model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tickMsg:
		if a.state == viewScanning && a.scan != nil {
			a.progress = a.scan.Progress()
			return a, tickCmd()
		}
		return a, nil

	case scanDoneMsg:
		return a.handleScanDone(msg)

	case chartMsg:
		if msg.err == nil {
			a.ctrl.Model.Calculated(msg.ref, msg.chart)
		}
		return a, nil

	case searchHitMsg:
		a.hits[msg.node] = true
		return a, nextHitCmd(a.activeFind)

	case searchDoneMsg:
		a.hitCount = msg.count
		a.activeFind = nil
		a.status = fmt.Sprintf("search done: %d matches", msg.count)
		return a, nil

	case reportDoneMsg:
		if msg.err != nil {
			a.errMsg = fmt.Sprintf("report failed: %v", msg.err)
		} else {
			a.status = "report written to " + msg.path
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.ctrl.Shutdown()
		return a, tea.Quit
	}

	switch a.state {
	case viewInput:
		switch msg.String() {
		case "enter":
			path := a.pathInput.Value()
			if path == "" {
				return a, nil
			}
			return a.startScan(path)
		case "q", "esc":
			a.ctrl.Shutdown()
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.pathInput, cmd = a.pathInput.Update(msg)
		return a, cmd

	case viewScanning:
		if msg.String() == "esc" {
			a.ctrl.Scanner.Cancel()
			return a, nil
		}
		return a, nil

	case viewBrowser:
		return a.handleBrowserKey(msg)
	}
	return a, nil
}

func (a *App) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		switch msg.String() {
		case "enter":
			a.searching = false
			a.searchInput.Blur()
			return a.startSearch(a.searchInput.Value())
		case "esc":
			a.searching = false
			a.searchInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		a.ctrl.Shutdown()
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "j":
		if a.cursor < len(a.rows)-1 {
			a.cursor++
		}
		return a, nil
	case "enter", " ":
		return a, a.toggleExpand()
	case "/":
		a.searching = true
		a.searchInput.SetValue("")
		return a, a.searchInput.Focus()
	case "esc":
		a.hits = make(map[*dirtree.Dir]bool)
		a.hitCount = 0
		a.status = ""
		return a, nil
	case "r":
		return a.startReport()
	case "n":
		a.state = viewInput
		a.pathInput.Focus()
		return a, textinput.Blink
	}
	return a, nil
}

func (a *App) startScan(path string) (tea.Model, tea.Cmd) {
	a.state = viewScanning
	a.errMsg = ""
	a.hits = make(map[*dirtree.Dir]bool)
	a.scan = a.ctrl.StartScan(path)
	a.scanStart = time.Now()
	a.cfg.LastRoot = path
	a.progress = scanner.Progress{}
	return a, tea.Batch(a.spin.Tick, tickCmd(), waitScanCmd(a.scan))
}

func (a *App) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.scan != a.scan {
		return a, nil
	}
	a.scan = nil
	if msg.err != nil {
		a.state = viewInput
		if !errors.Is(msg.err, context.Canceled) {
			a.errMsg = fmt.Sprintf("scan failed: %v", msg.err)
		}
		a.pathInput.Focus()
		return a, textinput.Blink
	}

	a.ctrl.InstallTree(msg.tree)
	a.expanded = map[*dirtree.Dir]bool{msg.tree: true}
	a.cursor = 0
	a.state = viewBrowser
	a.rebuildRows()
	return a, a.requestVisibleCharts()
}

// rebuildRows flattens the expanded portion of the tree into lines.
func (a *App) rebuildRows() {
	a.rows = a.rows[:0]
	tree := a.ctrl.Model.Tree()
	if tree == nil {
		return
	}
	a.rows = append(a.rows, row{ref: dirmodel.Ref{Node: tree, Target: dirmodel.TargetItself}})
	a.appendChildren(tree, 1)
	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
}

func (a *App) appendChildren(node *dirtree.Dir, depth int) {
	if !a.expanded[node] {
		return
	}
	count := a.ctrl.Model.RowCount(node)
	for i := 0; i < count; i++ {
		ref, ok := a.ctrl.Model.RowAt(node, i)
		if !ok {
			continue
		}
		a.rows = append(a.rows, row{ref: ref, depth: depth})
		if ref.Target == dirmodel.TargetItself {
			a.appendChildren(ref.Node, depth+1)
		}
	}
}

func (a *App) toggleExpand() tea.Cmd {
	if a.cursor >= len(a.rows) {
		return nil
	}
	r := a.rows[a.cursor]
	if r.ref.Target != dirmodel.TargetItself {
		return nil
	}
	a.expanded[r.ref.Node] = !a.expanded[r.ref.Node]
	a.rebuildRows()
	return a.requestVisibleCharts()
}

// requestVisibleCharts issues calculations for every visible row whose
// chart is not cached yet.
func (a *App) requestVisibleCharts() tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range a.rows {
		if a.ctrl.Model.IsChartCached(r.ref) {
			continue
		}
		task := a.ctrl.RequestChart(r.ref)
		cmds = append(cmds, chartCmd(task, r.ref))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a *App) startSearch(pattern string) (tea.Model, tea.Cmd) {
	if pattern == "" {
		return a, nil
	}
	mode := search.ModeFixed
	switch a.cfg.SearchMode {
	case "wildcard":
		mode = search.ModeWildcard
	case "regex":
		mode = search.ModeRegex
	}

	s, err := a.ctrl.StartSearch(pattern, mode)
	if err != nil {
		a.errMsg = err.Error()
		a.hits = make(map[*dirtree.Dir]bool)
		return a, nil
	}
	a.errMsg = ""
	a.hits = make(map[*dirtree.Dir]bool)
	a.activeFind = s
	a.status = "searching…"
	return a, nextHitCmd(s)
}

func (a *App) startReport() (tea.Model, tea.Cmd) {
	format := report.OutputFormat(a.cfg.ReportFormat)
	if format == "" {
		format = report.FormatJSON
	}
	path := fmt.Sprintf("dirage-report-%s.%s", time.Now().Format("20060102-150405"), format)
	if format == report.FormatSummary {
		path = fmt.Sprintf("dirage-report-%s.txt", time.Now().Format("20060102-150405"))
	}
	job := a.ctrl.GenerateReport()
	a.status = "generating report…"
	return a, reportCmd(job, path, format)
}
