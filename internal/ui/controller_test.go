package ui

import (
	"testing"
	"time"

	"github.com/fenilsonani/dirage/internal/config"
	"github.com/fenilsonani/dirage/internal/dirmodel"
	"github.com/fenilsonani/dirage/internal/dirtree"
	"github.com/fenilsonani/dirage/internal/search"
	"github.com/fenilsonani/dirage/internal/testutil"
)

func buildTestTree() *dirtree.Dir {
	root := dirtree.New("root")
	root.AppendFile(10, 100)
	root.Finalize()
	sub := dirtree.New("sub")
	sub.AppendFile(20, 200)
	sub.Finalize()
	root.AppendChild(sub)
	return root
}

func TestScanInstallsAndReplacesTree(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateAgedFile("dir/file.txt", 10, 1000)

	c := NewController(config.GetDefault())
	defer c.Shutdown()

	tree, err := c.StartScan(f.RootDir).Wait()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	c.InstallTree(tree)
	if c.Model.Tree() != tree {
		t.Fatal("tree not installed")
	}

	// A second scan replaces the tree and evicts the chart cache.
	ref := dirmodel.Ref{Node: tree}
	chart, err := c.RequestChart(ref).Wait()
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	c.Model.Calculated(ref, chart)

	second, err := c.StartScan(f.RootDir).Wait()
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	c.InstallTree(second)
	if c.Model.IsChartCached(ref) {
		t.Error("chart cache survived the new scan")
	}
}

func TestStartScanCancelsOutstandingWork(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateAgedFile("x/file.txt", 10, 1000)

	c := NewController(config.GetDefault())
	defer c.Shutdown()

	c.InstallTree(buildTestTree())

	s, err := c.StartSearch("sub", search.ModeFixed)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	job := c.GenerateReport()

	scan := c.StartScan(f.RootDir)
	defer scan.Cancel()

	// The search and the report must both have quiesced before the scan
	// was allowed to start.
	select {
	case <-s.Done():
	default:
		t.Error("search still running after StartScan")
	}
	select {
	case <-job.Done():
	default:
		t.Error("report still running after StartScan")
	}
}

func TestRequestChartTargets(t *testing.T) {
	c := NewController(config.GetDefault())
	defer c.Shutdown()

	tree := buildTestTree()
	c.InstallTree(tree)

	subtree, err := c.RequestChart(dirmodel.Ref{Node: tree}).Wait()
	if err != nil {
		t.Fatalf("subtree chart: %v", err)
	}
	files, err := c.RequestChart(dirmodel.Ref{Node: tree, Target: dirmodel.TargetFiles}).Wait()
	if err != nil {
		t.Fatalf("files chart: %v", err)
	}

	// The subtree spans both mtimes; the files chart only the root's own.
	if subtree.Min != 100 || subtree.Max != 200 {
		t.Errorf("subtree chart min/max = %d/%d, want 100/200", subtree.Min, subtree.Max)
	}
	if files.Min != 100 || files.Max != 100 {
		t.Errorf("files chart min/max = %d/%d, want 100/100", files.Min, files.Max)
	}
}

func TestGenerateReportProducesDocument(t *testing.T) {
	c := NewController(config.GetDefault())
	defer c.Shutdown()
	c.InstallTree(buildTestTree())

	doc, err := c.GenerateReport().Wait()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if doc.Name != "root" || len(doc.Subdirs) != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestShutdownQuiesces(t *testing.T) {
	c := NewController(config.GetDefault())
	c.InstallTree(buildTestTree())
	if _, err := c.StartSearch("s", search.ModeFixed); err != nil {
		t.Fatal(err)
	}
	c.GenerateReport()

	done := make(chan struct{})
	go func() {
		c.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not quiesce")
	}
}
