// Package report renders anthology statistics and crawl results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid genre chart
//
// The data structures live elsewhere (model.Summary and
// crawler.RunReport); writers only format them, so new formats can be
// added without touching the data.
package report
