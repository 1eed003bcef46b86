package ui

import (
	"strings"
	"testing"

	"github.com/fenilsonani/dirage/internal/agechart"
)

func TestRenderChartInvalidIsBlank(t *testing.T) {
	got := renderChart(agechart.Unset(), 0, 100, 10)
	if got != strings.Repeat(" ", 10) {
		t.Errorf("renderChart = %q, want blanks", got)
	}
}

func TestRenderChartSingletonCollapses(t *testing.T) {
	c := agechart.AgeChart{Min: 50, LowerWhisker: 50, LowerQuartile: 50,
		Median: 50, UpperQuartile: 50, UpperWhisker: 50, Max: 50}
	got := renderChart(c, 0, 100, 21)

	if len([]rune(got)) != 21 {
		t.Fatalf("width = %d, want 21", len([]rune(got)))
	}
	if !strings.ContainsRune(got, '┃') {
		t.Errorf("no median marker in %q", got)
	}
	if strings.Count(got, "█") > 1 {
		t.Errorf("singleton should collapse to a single cell: %q", got)
	}
}

func TestRenderChartSpansAxis(t *testing.T) {
	c := agechart.AgeChart{Min: 0, LowerWhisker: 0, LowerQuartile: 25,
		Median: 50, UpperQuartile: 75, UpperWhisker: 100, Max: 100}
	got := []rune(renderChart(c, 0, 100, 20))

	if got[0] != '─' && got[0] != '█' && got[0] != '┃' {
		t.Errorf("left whisker missing: %q", string(got))
	}
	if got[19] != '─' && got[19] != '█' {
		t.Errorf("right whisker missing: %q", string(got))
	}
	if got[9] != '┃' && got[10] != '┃' {
		t.Errorf("median not near centre: %q", string(got))
	}
}
