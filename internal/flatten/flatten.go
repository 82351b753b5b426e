package flatten

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/diwan/internal/arabic"
	"github.com/nao1215/diwan/internal/model"
	"github.com/nao1215/diwan/internal/store"
)

// Source yields poets by name.
// An empty names selects every poet. Unknown names are returned as missing.
type Source interface {
	EachPoet(ctx context.Context, names []string, fn func(*model.Poet) error) (missing []string, err error)
}

// MappingSource adapts an in-memory mapping to Source.
type MappingSource model.Mapping

// EachPoet implements Source.
func (m MappingSource) EachPoet(_ context.Context, names []string, fn func(*model.Poet) error) ([]string, error) {
	return store.EachPoet(model.Mapping(m), names, fn)
}

// Options configures Flatten.
type Options struct {
	// Clean strips characters outside the Arabic printable set.
	Clean bool

	// StripAccents removes diacritics.
	StripAccents bool

	Logger *slog.Logger
}

// Result is the flattened text and the names that were not found.
type Result struct {
	Text     string
	Poets    int
	Poems    int
	Warnings []string
}

// Entry formats one poem.
func Entry(title, text string) string {
	return "\t" + title + "\t\n" + strings.TrimSpace(text) + "\n\n"
}

// Flatten concatenates the entries of every poem of the selected poets.
// Poets follow names, or name order when names is empty; poems follow
// title order.
func Flatten(ctx context.Context, src Source, names []string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	result := &Result{}
	var b strings.Builder

	missing, err := src.EachPoet(ctx, names, func(p *model.Poet) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result.Poets++
		for _, title := range p.Titles() {
			text := p.Poems[title].Text
			if opts.Clean {
				text = arabic.Clean(text)
			}
			if opts.StripAccents {
				text = arabic.StripAccents(text)
			}
			b.WriteString(Entry(title, text))
			result.Poems++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read poets: %w", err)
	}

	for _, name := range missing {
		logger.Warn("poet not found", "poet", name)
		result.Warnings = append(result.Warnings, fmt.Sprintf("poet %s not found", name))
	}

	result.Text = b.String()
	return result, nil
}

// Mode decides how WriteFile treats an existing file.
type Mode int

const (
	// ModeAppend appends to an existing file.
	ModeAppend Mode = iota
	// ModeOverwrite truncates an existing file.
	ModeOverwrite
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown write mode")

// ParseMode parses "append" or "overwrite".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "append":
		return ModeAppend, nil
	case "overwrite":
		return ModeOverwrite, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeOverwrite {
		return "overwrite"
	}
	return "append"
}

// WriteFile writes text to path, creating it if needed.
func WriteFile(path, text string, mode Mode) error {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == ModeOverwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0600) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
