package main

import (
	"fmt"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/model"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored poets and poems",
		Long: `Stats prints poem counts per poet, genre and meter, and the number of
poems whose text appears more than once.

Examples:
  diwan stats -i poets.json
  diwan stats --db ./data --markdown > stats.md`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultJSONPath, "JSON mapping file to read")
	addStoreFlags(cmd)
	cmd.MarkFlagsMutuallyExclusive("input", "cred", "db")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.Flags().Int("top", 0, "Number of poets, genres and meters shown in text output")

	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyStoreFlags(cmd, cfg, "input"); err != nil {
		return err
	}

	flags := cmd.Flags()
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	top, err := flags.GetInt("top")
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		cfg.ReportFormat = config.ReportJSON
	case asMarkdown:
		cfg.ReportFormat = config.ReportMarkdown
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx := cmd.Context()

	st, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(closeFn, logger)

	m, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if err := m.Validate(); err != nil {
		logger.Warn("mapping has inconsistent entries", "error", err)
	}

	summary := model.NewSummary(storeLabel(cfg), m)

	_, err = newReportWriter(cfg.ReportFormat, cmd.OutOrStdout(), cfg.Verbose, top).Write(summary)
	return err
}
