package ui

import (
	"github.com/fenilsonani/dirage/internal/agechart"
	"github.com/fenilsonani/dirage/internal/config"
	"github.com/fenilsonani/dirage/internal/dirmodel"
	"github.com/fenilsonani/dirage/internal/dirtree"
	"github.com/fenilsonani/dirage/internal/report"
	"github.com/fenilsonani/dirage/internal/scanner"
	"github.com/fenilsonani/dirage/internal/search"
)

// Controller wires the core services together and enforces the lifecycle
// rule that matters for memory safety: every reader of the current tree is
// cancelled before the tree is replaced.
type Controller struct {
	Scanner *scanner.Service
	Calc    *agechart.Calculator
	Search  *search.Service
	Builder *report.Builder
	Model   *dirmodel.Model

	reportJob *report.Job
}

// NewController creates the service graph from the configuration.
func NewController(cfg *config.Config) *Controller {
	calc := agechart.NewCalculator(cfg.CalcWorkers)
	return &Controller{
		Scanner: scanner.NewService(),
		Calc:    calc,
		Search:  search.NewService(cfg.SearchWorkers),
		Builder: report.NewBuilder(calc),
		Model:   dirmodel.NewModel(),
	}
}

// StartScan cancels all outstanding work against the current tree, then
// starts scanning path. The caller installs the finished tree with
// InstallTree once the scan resolves.
func (c *Controller) StartScan(path string) *scanner.Scan {
	c.Search.Cancel()
	c.Calc.CancelAll()
	c.CancelReport()
	return c.Scanner.Start(path)
}

// InstallTree makes tree the current tree, dropping the previous one and
// its cached charts.
func (c *Controller) InstallTree(tree *dirtree.Dir) {
	c.Model.Reset(tree)
}

// StartSearch runs a name search over the current tree.
func (c *Controller) StartSearch(pattern string, mode search.Mode) (*search.Search, error) {
	return c.Search.Start(pattern, c.Model.Tree(), mode)
}

// RequestChart issues the calculation behind one model row.
func (c *Controller) RequestChart(ref dirmodel.Ref) *agechart.Task {
	if ref.Target == dirmodel.TargetFiles {
		return c.Calc.CalculateFiles(ref.Node)
	}
	return c.Calc.CalculateSubtree(ref.Node)
}

// GenerateReport builds the full recursive report for the current tree.
// Only one report runs at a time.
func (c *Controller) GenerateReport() *report.Job {
	c.CancelReport()
	c.reportJob = c.Builder.Generate(c.Model.Tree())
	return c.reportJob
}

// CancelReport cancels a report in flight, if any.
func (c *Controller) CancelReport() {
	if c.reportJob != nil {
		c.reportJob.Cancel()
		c.reportJob = nil
	}
}

// Shutdown cancels everything and waits for quiescence.
func (c *Controller) Shutdown() {
	c.Search.Cancel()
	c.Calc.CancelAll()
	c.CancelReport()
	c.Scanner.Cancel()
}
