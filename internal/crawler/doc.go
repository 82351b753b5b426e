// Package crawler walks aldiwan.net and fills a model.Anthology.
//
// # Architecture
//
// A crawl has two phases. DiscoverPoetURLs reads the pager of the poet
// index, fetches every index page through a bounded pool and collects the
// poet category links. Run then processes poets one at a time: CrawlPoet
// fetches the poet page, extracts the name and fans out over the poem
// links with a bounded pool built on errgroup.SetLimit.
//
// # Ownership
//
// The Crawler never owns the mapping. It is handed an *model.Anthology
// which serializes writes, and poem links of one poet are de-duplicated by
// title before fan-out so two workers never write the same key.
//
// # Failures
//
// Every poem link produces a PoemOutcome. With PolicyContinue, failed
// poems are reported and the poet keeps the poems that succeeded. With
// PolicyFailPoet, the poet entry is removed and CrawlPoet returns a
// *PoetError. Run logs poet failures and moves on to the next poet.
//
// # Checkpoints
//
// Run hands a snapshot of the anthology to a Checkpointer every N poets and
// once more at the end, even when the context was cancelled.
//
// # Usage
//
//	a := model.NewAnthology(mapping)
//	c := crawler.New(fetcher.New(), a, crawler.WithConcurrency(8))
//	urls, err := c.DiscoverPoetURLs(ctx, discoverer, indexTemplate)
//	report, err := c.Run(ctx, urls, checkpointer)
package crawler
