package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/diwan/internal/crawler"
	"github.com/nao1215/diwan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Diwan Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + summary.Source + "`"},
			{"Poets", strconv.Itoa(summary.PoetCount)},
			{"Poems", strconv.Itoa(summary.PoemCount)},
			{"Duplicate texts", strconv.Itoa(summary.DuplicateTexts)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)

	if summary.HasPoems() {
		w.writePoets(md, summary)
		w.writeCounts(md, "Genres", summary.Genres)
		w.writePieChart(md, summary.Genres)
		w.writeCounts(md, "Meters", summary.Meters)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case !summary.HasPoems():
		md.Note("No poems stored yet.")
	case summary.DuplicateTexts > 0:
		md.Warningf("%d poem(s) share their text with another poem.", summary.DuplicateTexts)
	default:
		md.Tip("Every poem text is unique.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePoets(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Poets")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.Poets))
	for _, p := range limit(summary.Poets, DefaultTop) {
		rows = append(rows, []string{
			truncateString(p.Name, 40),
			strconv.Itoa(p.PoemCount),
			strconv.Itoa(p.Classical),
			strconv.Itoa(p.WithMeter),
			strconv.Itoa(p.TotalLines),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Poet", "Poems", "Classical", "With meter", "Lines"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, title string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}
	md.H2(title)
	md.PlainText("")

	rows := make([][]string, 0, len(counts))
	for _, c := range limit(counts, DefaultTop) {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Label", "Poems"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the genre distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, genres []model.Count) {
	if len(genres) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Genre Distribution"),
		piechart.WithShowData(true),
	)
	for _, g := range limit(genres, DefaultTop) {
		chart.LabelAndIntValue(g.Label, uint64(g.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteRun outputs the crawl result in Markdown format.
func (w *MarkdownWriter) WriteRun(run *crawler.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Diwan Crawl")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Poets", strconv.Itoa(run.Total)},
			{"Crawled", strconv.Itoa(run.Crawled)},
			{"Skipped", strconv.Itoa(run.Skipped)},
			{"Poems stored", strconv.Itoa(run.PoemsStored)},
			{"Checkpoints", strconv.Itoa(run.Checkpoints)},
			{"Elapsed", run.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	if len(run.FailedPoets) == 0 && len(run.FailedPoems) == 0 {
		md.Tip("Every poet and poem was crawled.")
		md.PlainText("")
	}

	if len(run.FailedPoets) > 0 {
		md.H2("Failed Poets")
		md.PlainText("")
		items := make([]string, 0, len(run.FailedPoets))
		for _, f := range run.FailedPoets {
			items = append(items, f.URL+": "+errString(f.Err))
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(run.FailedPoems) > 0 {
		md.H2("Failed Poems")
		md.PlainText("")
		rows := make([][]string, 0, len(run.FailedPoems))
		for _, f := range run.FailedPoems {
			rows = append(rows, []string{f.Poet, f.Title, truncateString(errString(f.Err), 60)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Poet", "Poem", "Error"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [diwan](https://github.com/nao1215/diwan)*")
}
