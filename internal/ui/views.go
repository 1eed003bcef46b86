package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fenilsonani/dirage/internal/dirmodel"
	"github.com/fenilsonani/dirage/internal/ui/styles"
)

// View renders the current view.
func (a *App) View() string {
	switch a.state {
	case viewInput:
		return a.renderInput()
	case viewScanning:
		return a.renderScanning()
	case viewBrowser:
		return a.renderBrowser()
	}
	return ""
}

func (a *App) renderInput() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("dirage - directory age analyser"))
	b.WriteString("\n\n")
	b.WriteString("Directory to analyse:\n")
	b.WriteString(a.pathInput.View())
	b.WriteString("\n\n")
	if a.errMsg != "" {
		b.WriteString(styles.ErrorStyle.Render(a.errMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.HelpStyle.Render("enter: scan · esc: quit"))
	return styles.PanelStyle.Render(b.String())
}

func (a *App) renderScanning() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Scanning"))
	b.WriteString("\n\n")
	b.WriteString(a.spin.View())
	b.WriteString(" ")
	b.WriteString(a.statusLine())
	b.WriteString(styles.StatusStyle.Render(fmt.Sprintf("  [%s]", time.Since(a.scanStart).Round(time.Second))))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("esc: cancel"))
	return styles.PanelStyle.Render(b.String())
}

// statusLine formats the four progress counters for the scanning view.
func (a *App) statusLine() string {
	p := a.progress
	return fmt.Sprintf("%d files, %d dirs, %d skipped, %d errors",
		p.NumFiles, p.NumDirs, p.NumSkipped, p.NumErrors)
}

func (a *App) renderBrowser() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("dirage"))
	b.WriteString("\n")

	visible := a.visibleWindow()
	for i, r := range visible.rows {
		b.WriteString(a.renderRow(r, visible.offset+i == a.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.searching {
		b.WriteString("/")
		b.WriteString(a.searchInput.View())
		b.WriteString("\n")
	} else if a.errMsg != "" {
		b.WriteString(styles.ErrorStyle.Render(a.errMsg))
		b.WriteString("\n")
	} else if a.status != "" {
		b.WriteString(styles.StatusStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("↑/↓: move · enter: expand · /: search · r: report · n: new scan · q: quit"))
	return b.String()
}

type window struct {
	rows   []row
	offset int
}

// visibleWindow clips the row list around the cursor to the terminal
// height.
func (a *App) visibleWindow() window {
	max := a.height - 8
	if max < 5 {
		max = 5
	}
	if len(a.rows) <= max {
		return window{rows: a.rows}
	}
	start := a.cursor - max/2
	if start < 0 {
		start = 0
	}
	if start+max > len(a.rows) {
		start = len(a.rows) - max
	}
	return window{rows: a.rows[start : start+max], offset: start}
}

func (a *App) renderRow(r row, selected bool) string {
	m := a.ctrl.Model

	name := m.Data(r.ref, dirmodel.ColName)
	size := m.Data(r.ref, dirmodel.ColSize)
	age := m.Data(r.ref, dirmodel.ColMedianAge)

	marker := "  "
	if r.ref.Target == dirmodel.TargetItself && r.ref.Node.NumChildren() > 0 {
		if a.expanded[r.ref.Node] {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	indent := strings.Repeat("  ", r.depth)
	label := fmt.Sprintf("%s%s%s", indent, marker, name)
	if rs := []rune(label); len(rs) > 38 {
		label = string(rs[:35]) + "…"
	}

	var chart string
	if c, ok := m.Chart(r.ref); ok {
		chart = renderChart(c, m.ChartsMin(), m.ChartsMax(), 24)
	} else {
		chart = strings.Repeat(" ", 24)
	}

	line := fmt.Sprintf("%-38s %10s %14s %s", label, size, age, styles.ChartStyle.Render(chart))
	if a.hits[r.ref.Node] && r.ref.Target == dirmodel.TargetItself {
		line = styles.AgeStyle.Render(line)
	}
	if selected {
		return styles.SelectedStyle.Render("> " + line)
	}
	return "  " + line
}
