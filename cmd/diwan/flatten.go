package main

import (
	"fmt"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/flatten"
	"github.com/spf13/cobra"
)

// NewFlattenCmd creates the flatten command.
func NewFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Write stored poems as a plain text corpus",
		Long: `Flatten writes every poem of the selected poets to a text file.

Each poem is written as a tab-wrapped title line followed by the poem text
and a blank line. Poets are read from a JSON mapping (--in), a local store
(--db) or a hosted store (--cred). Unknown poet names are reported and
skipped.

By default the text is appended when reading a JSON mapping and the file
is overwritten when reading a store. Use --mode to choose explicitly.

Examples:
  # Every poet of poets.json
  diwan flatten --in poets.json -o poems.txt

  # Two poets from the hosted store, Arabic characters only
  diwan flatten --cred cred.json --poets "المتنبي" --poets "امرؤ القيس" --clean

  # Undiacritized text
  diwan flatten --in poets.json --strip-accents`,
		Args: cobra.NoArgs,
		RunE: runFlattenCmd,
	}

	cmd.Flags().String("in", config.DefaultJSONPath, "JSON mapping file to read")
	addStoreFlags(cmd)
	cmd.MarkFlagsMutuallyExclusive("in", "cred", "db")

	cmd.Flags().StringSlice("poets", nil, "Poet names to include (default: all)")
	cmd.Flags().StringP("output", "o", config.DefaultTextPath, "Output text file")
	cmd.Flags().String("mode", "", "Write mode: append or overwrite")
	cmd.Flags().Bool("clean", false, "Drop characters outside the Arabic printable set")
	cmd.Flags().Bool("strip-accents", false, "Remove diacritics from poem text")

	return cmd
}

func runFlattenCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyStoreFlags(cmd, cfg, "in"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	flags := cmd.Flags()
	names, err := flags.GetStringSlice("poets")
	if err != nil {
		return err
	}
	output, err := flags.GetString("output")
	if err != nil {
		return err
	}
	clean, err := flags.GetBool("clean")
	if err != nil {
		return err
	}
	stripAccents, err := flags.GetBool("strip-accents")
	if err != nil {
		return err
	}
	modeFlag, err := flags.GetString("mode")
	if err != nil {
		return err
	}

	mode := defaultMode(cfg.Store)
	if modeFlag != "" {
		if mode, err = flatten.ParseMode(modeFlag); err != nil {
			return err
		}
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx := cmd.Context()

	st, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(closeFn, logger)

	result, err := flatten.Flatten(ctx, st, names, flatten.Options{
		Clean:        clean,
		StripAccents: stripAccents,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if err := flatten.WriteFile(output, result.Text, mode); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	fmt.Fprintf(out, "Wrote %d poems of %d poets to %s (%s)\n",
		result.Poems, result.Poets, output, mode)
	return nil
}

// defaultMode appends for JSON sources and overwrites for document stores.
func defaultMode(storeKind string) flatten.Mode {
	if storeKind == config.StoreJSON {
		return flatten.ModeAppend
	}
	return flatten.ModeOverwrite
}
