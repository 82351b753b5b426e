package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/crawler"
	"github.com/nao1215/diwan/internal/extract"
	"github.com/nao1215/diwan/internal/fetcher"
	"github.com/nao1215/diwan/internal/model"
	"github.com/nao1215/diwan/internal/pagination"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [poet-url...]",
		Short: "Scrape poets and their poems",
		Long: `Scrape fetches poet pages and every poem they link to.

With no arguments, the poet index is paginated and every poet on the site is
scraped. Poets already in the store are skipped unless --force is given.
Progress is saved every --checkpoint poets and once more at the end, also
when the scrape is interrupted.

Examples:
  # Scrape the whole site into poets.json
  diwan scrape

  # Scrape two poets
  diwan scrape https://www.aldiwan.net/cat-poet-imru-al-qais cat-poet-antarah

  # Keep poems in the local SQLite store
  diwan scrape --store local

  # Write to a hosted libSQL database
  diwan scrape --cred cred.json

  # Be gentle with the site
  diwan scrape -C 2 --rate 1`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultJSONPath,
		"Mapping file of the json store")
	cmd.Flags().String("store", config.StoreJSON,
		"Store to read and write: json, local or cloud")
	addStoreFlags(cmd)

	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Site root that relative links are resolved against")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each request")
	cmd.Flags().IntP("concurrency", "C", config.DefaultConcurrency,
		"Number of poem pages fetched in parallel")
	cmd.Flags().Int("checkpoint", config.DefaultCheckpointEvery,
		"Save progress after this many poets")
	cmd.Flags().Float64("rate", 0,
		"Maximum requests per second (0 = unlimited)")

	cmd.Flags().Bool("force", false,
		"Scrape poets again even if they are already stored")
	cmd.Flags().Bool("fail-poet", false,
		"Drop a poet when any of its poems fails")

	cmd.Flags().String("report", config.ReportText,
		"Run report format: text, json or markdown")

	return cmd
}

func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScrapeConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildScrapeConfig layers command line flags over the configuration file.
func buildScrapeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := applyStoreFlags(cmd, cfg, "output"); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("checkpoint") {
		if cfg.CheckpointEvery, err = flags.GetInt("checkpoint"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.RequestsPerSecond, err = flags.GetFloat64("rate"); err != nil {
			return nil, err
		}
	}

	if cfg.Force, err = flags.GetBool("force"); err != nil {
		return nil, err
	}
	if cfg.FailPoet, err = flags.GetBool("fail-poet"); err != nil {
		return nil, err
	}
	if cfg.ReportFormat, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	cfg.URLs = args
	return cfg, nil
}

// runScrape loads the store, crawls and writes the run report to out.
func runScrape(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	st, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(closeFn, logger)

	m, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	logger.Info("store loaded", "store", cfg.Store, "poets", len(m))

	anthology := model.NewAnthology(m)
	f := newFetcher(cfg, logger)
	c := newCrawler(cfg, f, anthology, out, logger)

	urls, err := poetURLs(ctx, cfg, c, f, logger)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no poet pages found")
	}

	fmt.Fprintf(out, "Scraping %d poets into %s...\n", len(urls), storeLabel(cfg))

	run, runErr := c.Run(ctx, urls, crawler.CheckpointFunc(st.Save))
	if run != nil {
		if _, err := newReportWriter(cfg.ReportFormat, out, cfg.Verbose, 0).WriteRun(run); err != nil {
			logger.Error("failed to write run report", "error", err)
		}
	}
	return runErr
}

func newFetcher(cfg *config.Config, logger *slog.Logger) *fetcher.HTTPFetcher {
	return fetcher.New(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithHeaders(cfg.Headers),
		fetcher.WithRateLimit(cfg.RequestsPerSecond),
		fetcher.WithLogger(logger),
	)
}

func newCrawler(cfg *config.Config, f fetcher.Fetcher, a *model.Anthology, out io.Writer, logger *slog.Logger) *crawler.Crawler {
	policy := crawler.PolicyContinue
	if cfg.FailPoet {
		policy = crawler.PolicyFailPoet
	}
	return crawler.New(f, a,
		crawler.WithBaseURL(cfg.BaseURL),
		crawler.WithPoetPrefix(cfg.PoetPrefix),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithIndexConcurrency(cfg.IndexConcurrency),
		crawler.WithCheckpointEvery(cfg.CheckpointEvery),
		crawler.WithPolicy(policy),
		crawler.WithForce(cfg.Force),
		crawler.WithLogger(logger),
		crawler.WithProgress(out),
	)
}

// poetURLs resolves the given URLs against the base URL, or discovers
// every poet on the site when none were given. Discovery keeps the URLs of
// index pages that loaded when others failed.
func poetURLs(ctx context.Context, cfg *config.Config, c *crawler.Crawler, f fetcher.Fetcher, logger *slog.Logger) ([]string, error) {
	if len(cfg.URLs) > 0 {
		urls := make([]string, 0, len(cfg.URLs))
		for _, u := range cfg.URLs {
			abs, err := extract.Resolve(cfg.BaseURL, u)
			if err != nil {
				return nil, err
			}
			urls = append(urls, abs)
		}
		return urls, nil
	}

	d := &pagination.SiteDiscoverer{Fetcher: f, FirstPageURL: cfg.FirstIndexURL()}
	urls, err := c.DiscoverPoetURLs(ctx, d, cfg.IndexURLTemplate())
	if err != nil {
		if len(urls) == 0 {
			return nil, fmt.Errorf("failed to discover poets: %w", err)
		}
		logger.Warn("some index pages failed", "error", err, "poets", len(urls))
	}
	return urls, nil
}
