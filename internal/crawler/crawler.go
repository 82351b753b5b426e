package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/extract"
	"github.com/nao1215/diwan/internal/fetcher"
	"github.com/nao1215/diwan/internal/model"
)

// FailurePolicy decides what happens to a poet when some of its poems fail.
type FailurePolicy int

const (
	// PolicyContinue keeps the poems that succeeded and reports the rest.
	PolicyContinue FailurePolicy = iota
	// PolicyFailPoet drops the poet entry on the first poem failure.
	PolicyFailPoet
)

// String returns the policy name.
func (p FailurePolicy) String() string {
	if p == PolicyFailPoet {
		return "fail-poet"
	}
	return "continue"
}

// PoemOutcome records what happened to one poem link.
type PoemOutcome struct {
	Title string
	URL   string

	// Err is nil when the poem was stored.
	Err error

	// Replaced is set when the poem overwrote an existing title.
	Replaced bool

	// Superseded is set when a later link on the same poet page had the
	// same title. The link was not fetched.
	Superseded bool
}

// OK reports whether the poem was stored.
func (o PoemOutcome) OK() bool {
	return o.Err == nil && !o.Superseded
}

// PoetResult is the result of crawling one poet page.
type PoetResult struct {
	URL  string
	Name string

	// Skipped is set when the poet was already known and not re-crawled.
	Skipped bool

	Outcomes []PoemOutcome
}

// Stored returns the number of poems stored.
func (r *PoetResult) Stored() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that carry an error.
func (r *PoetResult) Failed() []PoemOutcome {
	var failed []PoemOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// PoetError is returned by CrawlPoet under PolicyFailPoet.
type PoetError struct {
	Poet string
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *PoetError) Error() string {
	return fmt.Sprintf("poet %q (%s): %v", e.Poet, e.URL, e.Err)
}

// Unwrap returns the first poem failure.
func (e *PoetError) Unwrap() error {
	return e.Err
}

// Crawler scrapes poets into an anthology.
type Crawler struct {
	fetcher   fetcher.Fetcher
	anthology *model.Anthology

	baseURL          string
	poetPrefix       string
	concurrency      int
	indexConcurrency int
	checkpointEvery  int
	policy           FailurePolicy
	force            bool

	logger   *slog.Logger
	progress io.Writer
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithBaseURL sets the URL that relative links are resolved against.
func WithBaseURL(u string) Option {
	return func(c *Crawler) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithPoetPrefix sets the href prefix of poet category links.
func WithPoetPrefix(p string) Option {
	return func(c *Crawler) {
		if p != "" {
			c.poetPrefix = p
		}
	}
}

// WithConcurrency sets the number of poems fetched in parallel.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithIndexConcurrency sets the number of index pages fetched in parallel.
func WithIndexConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.indexConcurrency = n
		}
	}
}

// WithCheckpointEvery sets how many poets are processed between checkpoints.
func WithCheckpointEvery(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.checkpointEvery = n
		}
	}
}

// WithPolicy sets the failure policy.
func WithPolicy(p FailurePolicy) Option {
	return func(c *Crawler) {
		c.policy = p
	}
}

// WithForce re-crawls poets that are already in the anthology.
func WithForce(force bool) Option {
	return func(c *Crawler) {
		c.force = force
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress sets where "[i/n]" progress lines are printed.
func WithProgress(w io.Writer) Option {
	return func(c *Crawler) {
		if w != nil {
			c.progress = w
		}
	}
}

// New creates a Crawler writing into a.
func New(f fetcher.Fetcher, a *model.Anthology, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:          f,
		anthology:        a,
		baseURL:          config.DefaultBaseURL,
		poetPrefix:       config.DefaultPoetPrefix,
		concurrency:      config.DefaultConcurrency,
		indexConcurrency: config.DefaultIndexConcurrency,
		checkpointEvery:  config.DefaultCheckpointEvery,
		policy:           PolicyContinue,
		logger:           slog.Default(),
		progress:         io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CrawlPoet scrapes one poet page.
//
// A poet already present in the anthology is skipped without fetching any
// poem unless the crawler was created WithForce, in which case the entry
// is replaced. Otherwise a new entry is created and every poem link is
// fetched through the bounded pool.
//
// When ctx is cancelled mid-poet, or a poem fails under PolicyFailPoet,
// the anthology is left as it was before the call.
func (c *Crawler) CrawlPoet(ctx context.Context, poetURL string) (*PoetResult, error) {
	doc, err := c.fetcher.Fetch(ctx, poetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poet page: %w", err)
	}

	name, err := extract.PoetName(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract poet name from %s: %w", poetURL, err)
	}

	result := &PoetResult{URL: poetURL, Name: name}

	// rollback undoes this crawl: a new entry is removed, a forced one
	// gets its previous poems back.
	rollback := func() { c.anthology.RemovePoet(name) }
	if c.force {
		if prev, ok := c.anthology.Get(name); ok {
			rollback = func() { c.anthology.RestorePoet(prev) }
		}
		c.anthology.ReplacePoet(name)
	} else if !c.anthology.AddPoet(name) {
		c.logger.Info("poet already scraped, skipping", "poet", name, "url", poetURL)
		result.Skipped = true
		return result, nil
	}

	links := extract.PoemLinks(doc)
	unique, superseded := dedupeByTitle(links)
	for _, l := range superseded {
		result.Outcomes = append(result.Outcomes, PoemOutcome{
			Title:      l.Title,
			URL:        c.resolve(l.Href),
			Superseded: true,
		})
	}

	c.logger.Debug("crawling poet",
		"poet", name,
		"poems", len(unique),
		"duplicate_titles", len(superseded),
	)

	outcomes, err := c.crawlPoems(ctx, name, unique)
	result.Outcomes = append(result.Outcomes, outcomes...)
	if err != nil {
		rollback()
		return result, err
	}

	if failed := result.Failed(); len(failed) > 0 {
		c.logger.Warn("some poems failed",
			"poet", name,
			"failed", len(failed),
			"stored", result.Stored(),
		)
		if c.policy == PolicyFailPoet {
			rollback()
			return result, &PoetError{Poet: name, URL: poetURL, Err: firstCause(failed)}
		}
	}

	return result, nil
}

// crawlPoem fetches one poem page and stores it under poet.
func (c *Crawler) crawlPoem(ctx context.Context, poet string, link extract.Link) PoemOutcome {
	outcome := PoemOutcome{Title: link.Title, URL: c.resolve(link.Href)}

	doc, err := c.fetcher.Fetch(ctx, outcome.URL)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	info, err := extract.ParseInfo(extract.PoemInfo(doc))
	if err != nil {
		outcome.Err = err
		return outcome
	}

	text, err := extract.PoemText(doc)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	poem := &model.Poem{
		Title:    link.Title,
		Source:   outcome.URL,
		Author:   poet,
		Text:     text,
		Language: model.LanguageArabic,
	}
	info.Apply(poem)

	outcome.Replaced, outcome.Err = c.anthology.PutPoem(poet, poem)
	return outcome
}

func (c *Crawler) resolve(href string) string {
	u, err := extract.Resolve(c.baseURL, href)
	if err != nil {
		return href
	}
	return u
}

// dedupeByTitle keeps the last link of every title, in order of first
// appearance, and returns the dropped ones.
func dedupeByTitle(links []extract.Link) (unique, superseded []extract.Link) {
	index := make(map[string]int, len(links))
	for _, l := range links {
		if i, ok := index[l.Title]; ok {
			superseded = append(superseded, unique[i])
			unique[i] = l
			continue
		}
		index[l.Title] = len(unique)
		unique = append(unique, l)
	}
	return unique, superseded
}

