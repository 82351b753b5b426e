package flatten

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/diwan/internal/model"
	"github.com/nao1215/diwan/internal/store"
)

func testMapping() model.Mapping {
	return model.Mapping{
		"A": {Name: "A", Poems: map[string]*model.Poem{
			"t2": {Title: "t2", Author: "A", Text: "second"},
			"t1": {Title: "t1", Author: "A", Text: "  x\ty\n  "},
		}},
		"B": {Name: "B", Poems: map[string]*model.Poem{
			"u": {Title: "u", Author: "B", Text: "abc قفا"},
		}},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// TestFlatten tests text generation from a mapping.
func TestFlatten(t *testing.T) {
	t.Parallel()

	t.Run("filter with missing names", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		result, err := Flatten(context.Background(), MappingSource(testMapping()), []string{"A", "C"}, Options{Logger: logger})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "\tt1\t\nx\ty\n\n\tt2\t\nsecond\n\n"
		if result.Text != want {
			t.Errorf("expected %q, got %q", want, result.Text)
		}
		if diff := cmp.Diff([]string{"poet C not found"}, result.Warnings); diff != "" {
			t.Errorf("warnings mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(logs.String(), "level=WARN") {
			t.Error("expected a warning to be logged")
		}
	})

	t.Run("all poets in name order", func(t *testing.T) {
		t.Parallel()

		result, err := Flatten(context.Background(), MappingSource(testMapping()), nil, Options{Logger: quietLogger()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Poets != 2 || result.Poems != 3 {
			t.Errorf("unexpected counts: poets=%d poems=%d", result.Poets, result.Poems)
		}
		if !strings.HasSuffix(result.Text, "\tu\t\nabc قفا\n\n") {
			t.Errorf("expected poet B last, got %q", result.Text)
		}
	})

	t.Run("clean strips non arabic letters", func(t *testing.T) {
		t.Parallel()

		result, err := Flatten(context.Background(), MappingSource(testMapping()), []string{"B"}, Options{Clean: true, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "\tu\t\nقفا\n\n"; result.Text != want {
			t.Errorf("expected %q, got %q", want, result.Text)
		}
	})

	t.Run("strip accents removes diacritics", func(t *testing.T) {
		t.Parallel()

		src := MappingSource{"C": {Name: "C", Poems: map[string]*model.Poem{
			"v": {Title: "v", Author: "C", Text: "\u0642\u0650\u0641\u064e\u0627 \u0646\u064e\u0628\u0652\u0643\u0650"},
		}}}
		result, err := Flatten(context.Background(), src, nil, Options{StripAccents: true, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "\tv\t\n\u0642\u0641\u0627 \u0646\u0628\u0643\n\n"; result.Text != want {
			t.Errorf("expected %q, got %q", want, result.Text)
		}
	})

	t.Run("document store source", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		ds, err := store.OpenLocal(ctx, t.TempDir(), store.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer ds.Close()
		if err := ds.Save(ctx, testMapping()); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		fromStore, err := Flatten(ctx, ds, nil, Options{Logger: quietLogger()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fromMapping, err := Flatten(ctx, MappingSource(testMapping()), nil, Options{Logger: quietLogger()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fromStore.Text != fromMapping.Text {
			t.Errorf("store and mapping output differ:\n%q\n%q", fromStore.Text, fromMapping.Text)
		}
	})
}

// TestWriteFile tests append and overwrite modes.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "poems.txt")

	if err := WriteFile(path, "a", ModeAppend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFile(path, "b", ModeAppend); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "ab" {
		t.Errorf("expected appended content, got %q", data)
	}

	if err := WriteFile(path, "c", ModeOverwrite); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "c" {
		t.Errorf("expected overwritten content, got %q", data)
	}
}

// TestParseMode tests mode parsing.
func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := ParseMode("Overwrite"); err != nil || m != ModeOverwrite {
		t.Errorf("unexpected result %v, %v", m, err)
	}
	if m, err := ParseMode("append"); err != nil || m != ModeAppend {
		t.Errorf("unexpected result %v, %v", m, err)
	}
	if _, err := ParseMode("replace"); err == nil {
		t.Error("expected error")
	}
}
