package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/diwan/internal/model"
)

// Checkpointer persists a snapshot of the anthology.
type Checkpointer interface {
	Checkpoint(ctx context.Context, m model.Mapping) error
}

// CheckpointFunc adapts a function to Checkpointer.
type CheckpointFunc func(ctx context.Context, m model.Mapping) error

// Checkpoint calls f.
func (f CheckpointFunc) Checkpoint(ctx context.Context, m model.Mapping) error {
	return f(ctx, m)
}

// PoetFailure is a poet that could not be crawled.
type PoetFailure struct {
	URL string
	Err error
}

// PoemFailure is a poem that could not be stored.
type PoemFailure struct {
	Poet  string
	Title string
	URL   string
	Err   error
}

// RunReport summarizes a Run.
type RunReport struct {
	Total       int
	Crawled     int
	Skipped     int
	PoemsStored int
	Checkpoints int
	Elapsed     time.Duration

	FailedPoets []PoetFailure
	FailedPoems []PoemFailure
}

// Run crawls urls one poet at a time.
//
// A poet failure is logged and recorded and the run moves on. cp receives
// a snapshot every checkpointEvery poets and once more at the end; the
// final checkpoint runs even if ctx is cancelled. A checkpoint error aborts
// the run. Run returns ctx.Err() when it was interrupted.
func (c *Crawler) Run(ctx context.Context, urls []string, cp Checkpointer) (*RunReport, error) {
	report := &RunReport{Total: len(urls)}
	start := time.Now()

	c.logger.Info("starting crawl",
		"poets", len(urls),
		"concurrency", c.concurrency,
		"policy", c.policy.String(),
		"force", c.force,
	)

	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}

		fmt.Fprintf(c.progress, "[%d/%d]\n", i+1, len(urls))
		c.crawlOne(ctx, u, report)

		// An interrupted poet leaves the loop; the final checkpoint saves.
		if ctx.Err() != nil {
			break
		}

		if (i+1)%c.checkpointEvery == 0 {
			fmt.Fprintln(c.progress, "Saving current progress...")
			if err := c.checkpoint(ctx, cp, report); err != nil {
				return report, err
			}
		}
	}

	// The last checkpoint must survive an interrupt.
	if err := c.checkpoint(context.WithoutCancel(ctx), cp, report); err != nil {
		return report, err
	}

	report.Elapsed = time.Since(start)
	c.logger.Info("crawl complete",
		"poets_stored", c.anthology.Len(),
		"crawled", report.Crawled,
		"skipped", report.Skipped,
		"failed_poets", len(report.FailedPoets),
		"failed_poems", len(report.FailedPoems),
		"elapsed", report.Elapsed,
	)

	return report, ctx.Err()
}

func (c *Crawler) crawlOne(ctx context.Context, u string, report *RunReport) {
	result, err := c.CrawlPoet(ctx, u)
	if result != nil {
		for _, o := range result.Failed() {
			report.FailedPoems = append(report.FailedPoems, PoemFailure{
				Poet:  result.Name,
				Title: o.Title,
				URL:   o.URL,
				Err:   o.Err,
			})
		}
	}
	if err != nil {
		c.logger.Error("failed to crawl poet", "url", u, "error", err)
		report.FailedPoets = append(report.FailedPoets, PoetFailure{URL: u, Err: err})
		return
	}

	if result.Skipped {
		report.Skipped++
		return
	}
	report.Crawled++
	report.PoemsStored += result.Stored()
}

func (c *Crawler) checkpoint(ctx context.Context, cp Checkpointer, report *RunReport) error {
	if cp == nil {
		return nil
	}
	if err := cp.Checkpoint(ctx, c.anthology.Snapshot()); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	report.Checkpoints++
	return nil
}
