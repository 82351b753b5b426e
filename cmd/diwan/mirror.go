package main

import (
	"fmt"

	"github.com/nao1215/diwan/internal/config"
	"github.com/nao1215/diwan/internal/store"
	"github.com/spf13/cobra"
)

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy a JSON mapping into a document store",
		Long: `Mirror writes every poet and poem of a JSON mapping into a document store.

Documents with the same poet name and poem title are overwritten. Other
documents already in the store are kept.

Examples:
  # Into the local store
  diwan mirror --update-with poets.json

  # Into a hosted libSQL database
  diwan mirror --update-with poets.json --cred cred.json`,
		Args: cobra.NoArgs,
		RunE: runMirrorCmd,
	}

	cmd.Flags().String("update-with", "", "JSON mapping file to copy")
	_ = cmd.MarkFlagRequired("update-with") //nolint:errcheck // flag is defined above
	addStoreFlags(cmd)
	cmd.MarkFlagsMutuallyExclusive("cred", "db")

	return cmd
}

func runMirrorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyStoreFlags(cmd, cfg, ""); err != nil {
		return err
	}
	if cfg.Store == config.StoreJSON {
		cfg.Store = config.StoreLocal
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	src, err := cmd.Flags().GetString("update-with")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx := cmd.Context()

	dst, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(closeFn, logger)

	result, err := store.Mirror(ctx, store.NewJSONStore(src), dst, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d poets and %d poems from %s to %s\n",
		result.Poets, result.Poems, src, storeLabel(cfg))
	return nil
}
