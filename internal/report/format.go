package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/dirage/internal/agechart"
)

// OutputFormat represents the report encoding.
type OutputFormat string

const (
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// Write serialises the document to w in the requested format.
func Write(w io.Writer, doc *Node, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(doc)
	case FormatSummary:
		return writeSummary(w, doc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes the report to a file.
func Save(doc *Node, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, doc, format)
}

// writeSummary prints the root and its immediate subdirectories with
// humanised sizes and median ages.
func writeSummary(w io.Writer, doc *Node) error {
	fmt.Fprintf(w, "=== Age Report: %s ===\n", doc.Name)
	fmt.Fprintf(w, "Total Size: %s\n", humanize.IBytes(uint64(doc.SubtreeSize)))
	fmt.Fprintf(w, "Direct Files: %d (%s)\n", doc.NumFiles, humanize.IBytes(uint64(doc.FilesSize)))
	fmt.Fprintf(w, "Median Age: %s\n", medianAge(doc.SubtreeChart))

	if len(doc.Subdirs) > 0 {
		fmt.Fprintf(w, "\nSubdirectories:\n")
		for _, sub := range doc.Subdirs {
			fmt.Fprintf(w, "  %-40s %12s  %s\n",
				sub.Name,
				humanize.IBytes(uint64(sub.SubtreeSize)),
				medianAge(sub.SubtreeChart))
		}
	}
	return nil
}

func medianAge(chart [7]int64) string {
	median := chart[3]
	if median == agechart.Low {
		return "no data"
	}
	return humanize.Time(time.Unix(median, 0))
}
