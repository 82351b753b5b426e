package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/diwan/internal/fetcher"
)

// SelectorPageLink matches pager entries.
const SelectorPageLink = ".page-link"

// ErrPaginationLayout is returned when the pager cannot be interpreted.
var ErrPaginationLayout = errors.New("unexpected pagination layout")

// Discoverer reports the number of index pages.
type Discoverer interface {
	PageCount(ctx context.Context) (int, error)
}

// SiteDiscoverer reads the page count from the first index page.
type SiteDiscoverer struct {
	Fetcher      fetcher.Fetcher
	FirstPageURL string
}

// PageCount fetches the first index page and parses its pager.
func (d *SiteDiscoverer) PageCount(ctx context.Context) (int, error) {
	doc, err := d.Fetcher.Fetch(ctx, d.FirstPageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch first index page: %w", err)
	}
	return PageCountFromDoc(doc)
}

// PageCountFromDoc returns the integer value of the second-to-last pager label.
func PageCountFromDoc(doc *goquery.Document) (int, error) {
	var labels []string
	doc.Find(SelectorPageLink).Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(s.Text()))
	})
	if len(labels) < 2 {
		return 0, fmt.Errorf("%w: %d page links", ErrPaginationLayout, len(labels))
	}

	label := labels[len(labels)-2]
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, fmt.Errorf("%w: page label %q is not a number", ErrPaginationLayout, label)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: page count %d", ErrPaginationLayout, n)
	}
	return n, nil
}

// Static always reports the same page count.
type Static int

// PageCount returns n.
func (n Static) PageCount(context.Context) (int, error) {
	return int(n), nil
}

// IndexURLs formats template with page numbers 1 through n.
// The template must contain a single %d verb.
func IndexURLs(template string, n int) []string {
	urls := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		urls = append(urls, fmt.Sprintf(template, i))
	}
	return urls
}
