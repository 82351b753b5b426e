package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/diwan/internal/crawler"
	"github.com/nao1215/diwan/internal/model"
)

// DefaultTop is the number of poets and labels listed by default.
const DefaultTop = 10

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// top limits the rows of each ranking; 0 lists everything.
	top int

	// verbose lists every failed poem of a crawl.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTop limits rankings to n rows. Zero lists every row.
func WithTop(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n >= 0 {
			w.top = n
		}
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "DIWAN REPORT")
	fmt.Fprintf(&sb, "Source:          %s\n", summary.Source)
	fmt.Fprintf(&sb, "Poets:           %d\n", summary.PoetCount)
	fmt.Fprintf(&sb, "Poems:           %d\n", summary.PoemCount)
	fmt.Fprintf(&sb, "Duplicate texts: %d\n", summary.DuplicateTexts)
	sb.WriteString("\n")

	if summary.HasPoems() {
		writeSection(&sb, "POETS")
		for _, p := range limit(summary.Poets, w.top) {
			fmt.Fprintf(&sb, "  %-30s %5d poems  %5d classical  %6d lines\n",
				p.Name, p.PoemCount, p.Classical, p.TotalLines)
		}
		sb.WriteString("\n")

		w.writeCounts(&sb, "GENRES", summary.Genres)
		w.writeCounts(&sb, "METERS", summary.Meters)
	} else {
		sb.WriteString("  No poems stored\n\n")
	}

	writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, title string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}
	writeSection(sb, title)
	for _, c := range limit(counts, w.top) {
		fmt.Fprintf(sb, "  %-30s %5d\n", c.Label, c.Count)
	}
	sb.WriteString("\n")
}

// WriteRun outputs the crawl result in human-readable format.
func (w *SimpleWriter) WriteRun(run *crawler.RunReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "DIWAN CRAWL")
	fmt.Fprintf(&sb, "Poets:        %d\n", run.Total)
	fmt.Fprintf(&sb, "Crawled:      %d\n", run.Crawled)
	fmt.Fprintf(&sb, "Skipped:      %d\n", run.Skipped)
	fmt.Fprintf(&sb, "Poems stored: %d\n", run.PoemsStored)
	fmt.Fprintf(&sb, "Checkpoints:  %d\n", run.Checkpoints)
	fmt.Fprintf(&sb, "Elapsed:      %s\n", run.Elapsed.Round(time.Millisecond))
	sb.WriteString("\n")

	if len(run.FailedPoets) > 0 {
		writeSection(&sb, "FAILED POETS")
		for _, f := range run.FailedPoets {
			fmt.Fprintf(&sb, "  [!] %s\n      %v\n", f.URL, f.Err)
		}
		sb.WriteString("\n")
	}

	if len(run.FailedPoems) > 0 {
		writeSection(&sb, "FAILED POEMS")
		if w.verbose {
			for _, f := range run.FailedPoems {
				fmt.Fprintf(&sb, "  [!] %s / %s\n      %s\n      %v\n", f.Poet, f.Title, f.URL, f.Err)
			}
		} else {
			fmt.Fprintf(&sb, "  %d poems failed (use --verbose to list them)\n", len(run.FailedPoems))
		}
		sb.WriteString("\n")
	}

	writeFooter(&sb)
	return w.output.Write([]byte(sb.String()))
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", (70-len(title))/2))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
