package ui

import (
	"strings"

	"github.com/fenilsonani/dirage/internal/agechart"
)

// renderChart draws one box plot as a fixed-width gauge on the shared time
// axis [axisMin, axisMax]: dots for the background, dashes between the
// whiskers, blocks between the quartiles and a bar at the median.
func renderChart(c agechart.AgeChart, axisMin, axisMax int64, width int) string {
	if !c.Valid() || width < 3 {
		return strings.Repeat(" ", width)
	}
	if axisMin > c.LowerWhisker {
		axisMin = c.LowerWhisker
	}
	if axisMax < c.UpperWhisker {
		axisMax = c.UpperWhisker
	}

	pos := func(t int64) int {
		if axisMax <= axisMin {
			return width / 2
		}
		p := int(int64(width-1) * (t - axisMin) / (axisMax - axisMin))
		if p < 0 {
			p = 0
		}
		if p > width-1 {
			p = width - 1
		}
		return p
	}

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '·'
	}
	for i := pos(c.LowerWhisker); i <= pos(c.UpperWhisker); i++ {
		cells[i] = '─'
	}
	for i := pos(c.LowerQuartile); i <= pos(c.UpperQuartile); i++ {
		cells[i] = '█'
	}
	cells[pos(c.Median)] = '┃'
	return string(cells)
}
