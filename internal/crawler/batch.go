package crawler

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/diwan/internal/extract"
	"github.com/nao1215/diwan/internal/pagination"
)

// errPoemFailed stops the poem pool early under PolicyFailPoet.
var errPoemFailed = errors.New("poem failed")

// crawlPoems fetches links with at most c.concurrency requests in flight.
// Outcomes are returned in link order. The error is non-nil only when ctx
// was cancelled.
func (c *Crawler) crawlPoems(ctx context.Context, poet string, links []extract.Link) ([]PoemOutcome, error) {
	outcomes := make([]PoemOutcome, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, link := range links {
		g.Go(func() error {
			// Each goroutine owns outcomes[i].
			if err := gctx.Err(); err != nil {
				outcomes[i] = PoemOutcome{Title: link.Title, URL: c.resolve(link.Href), Err: err}
				return nil
			}

			o := c.crawlPoem(gctx, poet, link)
			outcomes[i] = o
			if o.Err != nil {
				c.logger.Debug("poem failed",
					"poet", poet,
					"title", o.Title,
					"url", o.URL,
					"error", o.Err,
				)
				if c.policy == PolicyFailPoet {
					return errPoemFailed
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errPoemFailed) {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

// firstCause returns the first failure that is not a cancellation caused
// by an earlier failure.
func firstCause(failed []PoemOutcome) error {
	for _, o := range failed {
		if !errors.Is(o.Err, context.Canceled) {
			return o.Err
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return failed[0].Err
}

// DiscoverPoetURLs returns the sorted, de-duplicated poet page URLs listed
// on every index page.
//
// indexTemplate is formatted with the page number. Pages that fail are
// skipped; their errors are joined and returned together with the URLs
// harvested from the other pages.
func (c *Crawler) DiscoverPoetURLs(ctx context.Context, d pagination.Discoverer, indexTemplate string) ([]string, error) {
	n, err := d.PageCount(ctx)
	if err != nil {
		return nil, err
	}
	pages := pagination.IndexURLs(indexTemplate, n)

	c.logger.Info("discovering poets", "index_pages", len(pages))

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.indexConcurrency)

	for _, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := c.fetcher.Fetch(gctx, page)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}

			hrefs := extract.PoetLinks(doc, c.poetPrefix)

			mu.Lock()
			defer mu.Unlock()
			for _, href := range hrefs {
				seen[c.resolve(href)] = struct{}{}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	c.logger.Info("discovered poets", "poets", len(urls), "failed_pages", len(errs))

	return urls, errors.Join(errs...)
}
