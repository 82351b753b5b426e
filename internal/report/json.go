package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/diwan/internal/crawler"
	"github.com/nao1215/diwan/internal/model"
)

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary.
func (w *JSONWriter) Write(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// WriteRun outputs the crawl result.
func (w *JSONWriter) WriteRun(run *crawler.RunReport) (int, error) {
	return w.writeJSON(newRunJSON(run))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// runJSON is the JSON form of crawler.RunReport with errors as strings.
type runJSON struct {
	Total       int           `json:"total"`
	Crawled     int           `json:"crawled"`
	Skipped     int           `json:"skipped"`
	PoemsStored int           `json:"poems_stored"`
	Checkpoints int           `json:"checkpoints"`
	Elapsed     time.Duration `json:"elapsed_ns"`

	FailedPoets []failureJSON `json:"failed_poets,omitempty"`
	FailedPoems []failureJSON `json:"failed_poems,omitempty"`
}

type failureJSON struct {
	Poet  string `json:"poet,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

func newRunJSON(run *crawler.RunReport) runJSON {
	out := runJSON{
		Total:       run.Total,
		Crawled:     run.Crawled,
		Skipped:     run.Skipped,
		PoemsStored: run.PoemsStored,
		Checkpoints: run.Checkpoints,
		Elapsed:     run.Elapsed,
	}
	for _, f := range run.FailedPoets {
		out.FailedPoets = append(out.FailedPoets, failureJSON{URL: f.URL, Error: errString(f.Err)})
	}
	for _, f := range run.FailedPoems {
		out.FailedPoems = append(out.FailedPoems, failureJSON{
			Poet:  f.Poet,
			Title: f.Title,
			URL:   f.URL,
			Error: errString(f.Err),
		})
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
