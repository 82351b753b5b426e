package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/flatten"
	"github.com/nao1215/diwan/internal/log"
	"github.com/nao1215/diwan/internal/report"
	"github.com/nao1215/diwan/internal/store"
	"github.com/spf13/cobra"
)

// poetStore is a store that can also stream poets to the flattener.
type poetStore interface {
	store.Store
	flatten.Source
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the masking logger and installs it as the default.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// loadConfig builds a Config from defaults and the configuration file.
// A missing file is only an error when --config names it explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}
	cfg.ConfigFilePath = path

	found := config.FindConfigFile(path)
	switch {
	case found != "":
		f, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ApplyFile(f)
	case path != "":
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	return cfg, nil
}

// addStoreFlags registers the flags selecting a document store.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("cred", "",
		"Credentials file of a hosted libSQL database ({\"url\", \"auth_token\"})")
	cmd.Flags().String("db", "",
		"Directory of the local SQLite store (default: XDG data directory)")
}

// applyStoreFlags points cfg at the store chosen on the command line.
// jsonFlag names the flag holding a JSON mapping path; it may be empty.
func applyStoreFlags(cmd *cobra.Command, cfg *config.Config, jsonFlag string) error {
	flags := cmd.Flags()

	if jsonFlag != "" && flags.Changed(jsonFlag) {
		v, err := flags.GetString(jsonFlag)
		if err != nil {
			return err
		}
		cfg.JSONPath = v
		cfg.Store = config.StoreJSON
	}
	if flags.Changed("db") {
		v, err := flags.GetString("db")
		if err != nil {
			return err
		}
		cfg.DBDir = v
		cfg.Store = config.StoreLocal
	}
	if flags.Changed("cred") {
		v, err := flags.GetString("cred")
		if err != nil {
			return err
		}
		cfg.CredentialsPath = v
		cfg.Store = config.StoreCloud
	}
	if flags.Lookup("store") != nil && flags.Changed("store") {
		v, err := flags.GetString("store")
		if err != nil {
			return err
		}
		cfg.Store = v
	}
	return nil
}

// openStore opens the store selected by cfg.Store.
// The returned function releases it.
func openStore(ctx context.Context, cfg *config.Config) (poetStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreJSON:
		return store.NewJSONStore(cfg.JSONPath), noop, nil
	case config.StoreLocal:
		s, err := store.OpenLocal(ctx, cfg.DBDir, store.DefaultOptions())
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open local store: %w", err)
		}
		return s, s.Close, nil
	case config.StoreCloud:
		s, err := store.OpenCloud(ctx, cfg.CredentialsPath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open hosted store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %s", config.ErrUnknownStore, cfg.Store)
	}
}

// storeLabel describes the store for reports.
func storeLabel(cfg *config.Config) string {
	switch cfg.Store {
	case config.StoreLocal:
		return cfg.DBDir
	case config.StoreCloud:
		return "libsql (" + cfg.CredentialsPath + ")"
	default:
		return cfg.JSONPath
	}
}

// closeStore runs closeFn and logs a failure.
func closeStore(closeFn func() error, logger *slog.Logger) {
	if err := closeFn(); err != nil {
		logger.Error("failed to close store", "error", err)
	}
}

// newReportWriter picks the report writer for format.
// top limits text listings; zero keeps the default.
func newReportWriter(format string, out io.Writer, verbose bool, top int) report.Writer {
	if format != config.ReportText {
		return report.New(format, out)
	}
	opts := []report.SimpleWriterOption{report.WithVerbose(verbose)}
	if top > 0 {
		opts = append(opts, report.WithTop(top))
	}
	return report.NewSimpleWriter(out, opts...)
}
