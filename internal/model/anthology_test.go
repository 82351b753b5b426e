package model

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// TestAnthologyAddPoet tests first-write-wins semantics for poets.
func TestAnthologyAddPoet(t *testing.T) {
	t.Parallel()

	t.Run("creates a new empty entry", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		if !a.AddPoet("المتنبي") {
			t.Fatal("expected AddPoet to create the entry")
		}
		if _, ok := a.Get("المتنبي"); !ok {
			t.Error("expected poet to be present")
		}
		if a.Len() != 1 {
			t.Errorf("expected 1 poet, got %d", a.Len())
		}
	})

	t.Run("keeps the existing entry", func(t *testing.T) {
		t.Parallel()

		m := Mapping{"المتنبي": {Name: "المتنبي", Poems: map[string]*Poem{
			"على قدر": {Title: "على قدر", Author: "المتنبي", Text: "x"},
		}}}
		a := NewAnthology(m)
		if a.AddPoet("المتنبي") {
			t.Fatal("expected AddPoet to report an existing entry")
		}
		poet, ok := a.Get("المتنبي")
		if !ok {
			t.Fatal("expected poet")
		}
		if len(poet.Poems) != 1 {
			t.Errorf("expected existing poems to be kept, got %d", len(poet.Poems))
		}
	})

	t.Run("ReplacePoet resets poems", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		a.AddPoet("p")
		if _, err := a.PutPoem("p", &Poem{Title: "t", Author: "p"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		a.ReplacePoet("p")
		poet, _ := a.Get("p")
		if len(poet.Poems) != 0 {
			t.Errorf("expected empty poet after replace, got %d poems", len(poet.Poems))
		}
	})

	t.Run("RestorePoet brings back a saved copy", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		a.AddPoet("p")
		if _, err := a.PutPoem("p", &Poem{Title: "t", Author: "p"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		saved, _ := a.Get("p")
		a.ReplacePoet("p")
		a.RestorePoet(saved)
		saved.Poems["extra"] = &Poem{Title: "extra", Author: "p"}

		poet, ok := a.Get("p")
		if !ok {
			t.Fatal("expected poet")
		}
		if len(poet.Poems) != 1 {
			t.Errorf("expected 1 restored poem, got %d", len(poet.Poems))
		}
	})
}

// TestAnthologyPutPoem tests the preconditions of PutPoem.
func TestAnthologyPutPoem(t *testing.T) {
	t.Parallel()

	t.Run("unknown poet is rejected", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		_, err := a.PutPoem("missing", &Poem{Title: "t", Author: "missing"})
		if !errors.Is(err, ErrUnknownPoet) {
			t.Errorf("expected ErrUnknownPoet, got %v", err)
		}
	})

	t.Run("author mismatch is rejected", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		a.AddPoet("p")
		_, err := a.PutPoem("p", &Poem{Title: "t", Author: "q"})
		if !errors.Is(err, ErrAuthorMismatch) {
			t.Errorf("expected ErrAuthorMismatch, got %v", err)
		}
	})

	t.Run("duplicate title overwrites", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(nil)
		a.AddPoet("p")
		replaced, err := a.PutPoem("p", &Poem{Title: "t", Author: "p", Text: "first"})
		if err != nil || replaced {
			t.Fatalf("unexpected first put: replaced=%v err=%v", replaced, err)
		}
		replaced, err = a.PutPoem("p", &Poem{Title: "t", Author: "p", Text: "second"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !replaced {
			t.Error("expected second put to report a replacement")
		}
		poet, _ := a.Get("p")
		if poet.Poems["t"].Text != "second" {
			t.Errorf("expected last write to win, got %q", poet.Poems["t"].Text)
		}
	})

	t.Run("loaded poet without poems map accepts poems", func(t *testing.T) {
		t.Parallel()

		a := NewAnthology(Mapping{"p": {Name: "p"}})
		if _, err := a.PutPoem("p", &Poem{Title: "t", Author: "p"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestAnthologyConcurrentWriters runs disjoint writers under the race detector.
func TestAnthologyConcurrentWriters(t *testing.T) {
	t.Parallel()

	a := NewAnthology(nil)
	a.AddPoet("p")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			title := fmt.Sprintf("poem-%02d", i)
			if _, err := a.PutPoem("p", &Poem{Title: title, Author: "p"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			_ = a.Snapshot()
		}()
	}
	wg.Wait()

	poet, _ := a.Get("p")
	if len(poet.Poems) != 50 {
		t.Errorf("expected 50 poems, got %d", len(poet.Poems))
	}
}

// TestAnthologySnapshotIsolation verifies snapshots are deep copies.
func TestAnthologySnapshotIsolation(t *testing.T) {
	t.Parallel()

	a := NewAnthology(nil)
	a.AddPoet("p")
	_, _ = a.PutPoem("p", &Poem{Title: "t", Author: "p", Text: "original"})

	snap := a.Snapshot()
	snap["p"].Poems["t"].Text = "changed"
	delete(snap, "p")

	poet, ok := a.Get("p")
	if !ok {
		t.Fatal("snapshot mutation removed the poet")
	}
	if poet.Poems["t"].Text != "original" {
		t.Errorf("snapshot mutation leaked into anthology: %q", poet.Poems["t"].Text)
	}
}
