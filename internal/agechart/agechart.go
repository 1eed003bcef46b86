// Package agechart computes box-plot statistics over the age distribution
// of a directory tree, weighted by byte count.
package agechart

import "math"

// Low is the sentinel for an unassigned chart field.
const Low int64 = math.MinInt64

// AgeChart is a seven-number summary of a weighted time distribution. All
// values are seconds since the Unix epoch. A chart is never mutated after
// the calculator completes it.
type AgeChart struct {
	Min           int64
	LowerWhisker  int64 // 5th percentile
	LowerQuartile int64 // 25th percentile
	Median        int64
	UpperQuartile int64 // 75th percentile
	UpperWhisker  int64 // 95th percentile
	Max           int64
}

// Unset returns a chart with every field at the sentinel. This is the
// result for an input with no weight at all.
func Unset() AgeChart {
	return AgeChart{
		Min:           Low,
		LowerWhisker:  Low,
		LowerQuartile: Low,
		Median:        Low,
		UpperQuartile: Low,
		UpperWhisker:  Low,
		Max:           Low,
	}
}

// Valid reports whether the chart carries data and its fields are ordered.
func (c AgeChart) Valid() bool {
	return c.Min > Low && c.LowerWhisker >= c.Min && c.LowerQuartile >= c.LowerWhisker &&
		c.Median >= c.LowerQuartile && c.UpperQuartile >= c.Median &&
		c.UpperWhisker >= c.UpperQuartile && c.Max >= c.UpperWhisker
}

// Singleton reports whether the chart summarises a single weight cluster,
// in which case all seven fields coincide.
func (c AgeChart) Singleton() bool {
	return c.Min > Low && c.LowerWhisker == c.Min && c.LowerQuartile == c.LowerWhisker &&
		c.Median == c.LowerWhisker && c.UpperQuartile == c.Median &&
		c.UpperWhisker == c.UpperQuartile && c.Max == c.UpperQuartile
}

// Slice returns the chart as [min, p5, p25, p50, p75, p95, max] for
// serialisation.
func (c AgeChart) Slice() [7]int64 {
	return [7]int64{c.Min, c.LowerWhisker, c.LowerQuartile, c.Median, c.UpperQuartile, c.UpperWhisker, c.Max}
}
