package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/diwan/internal/model"
)

// Store loads and saves a whole mapping.
type Store interface {
	Load(ctx context.Context) (model.Mapping, error)
	Save(ctx context.Context, m model.Mapping) error
}

// MirrorResult counts what Mirror wrote.
type MirrorResult struct {
	Poets int
	Poems int
}

// Mirror copies every poet and poem of src into dst.
// Existing documents in dst with the same keys are overwritten; others are
// left alone.
func Mirror(ctx context.Context, src, dst Store, logger *slog.Logger) (*MirrorResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	if err := m.Validate(); err != nil {
		logger.Warn("source mapping has inconsistent entries", "error", err)
	}

	if err := dst.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save destination: %w", err)
	}

	result := &MirrorResult{Poets: len(m), Poems: m.PoemCount()}
	logger.Info("mirrored mapping", "poets", result.Poets, "poems", result.Poems)
	return result, nil
}
