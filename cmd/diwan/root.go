package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for diwan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diwan",
		Short: "Arabic poetry scraper for aldiwan.net",
		Long: `diwan scrapes poets and poems from aldiwan.net.

Scraped poems are kept in a JSON mapping file (poets.json), a local SQLite
document store, or a hosted libSQL database. The flatten command turns any
of them into a plain text corpus.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .diwan in current or home directory)")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewFlattenCmd())
	cmd.AddCommand(NewMirrorCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
