package model

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownPoet is returned when a poem is stored under a poet that has
// not been added to the anthology.
var ErrUnknownPoet = errors.New("unknown poet")

// Anthology owns the in-memory mapping during a crawl.
// Every mutation goes through the anthology so that concurrent poem
// workers never touch the underlying maps directly.
type Anthology struct {
	mu      sync.RWMutex
	mapping Mapping
}

// NewAnthology wraps an existing mapping. A nil mapping starts empty.
// The anthology takes ownership of m; callers should not mutate it afterwards.
func NewAnthology(m Mapping) *Anthology {
	if m == nil {
		m = make(Mapping)
	}
	return &Anthology{mapping: m}
}

// Get returns a copy of the poet entry.
func (a *Anthology) Get(name string) (*Poet, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	poet, ok := a.mapping[name]
	if !ok {
		return nil, false
	}
	return poet.Clone(), true
}

// AddPoet creates an empty entry for name unless one exists.
// It reports whether a new entry was created; the first write wins.
func (a *Anthology) AddPoet(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.mapping[name]; ok {
		return false
	}
	a.mapping[name] = NewPoet(name)
	return true
}

// ReplacePoet resets the entry for name to an empty poet.
func (a *Anthology) ReplacePoet(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mapping[name] = NewPoet(name)
}

// RestorePoet puts a copy of p back under p.Name, replacing any entry.
func (a *Anthology) RestorePoet(p *Poet) {
	if p == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mapping[p.Name] = p.Clone()
}

// RemovePoet deletes the entry for name.
func (a *Anthology) RemovePoet(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.mapping, name)
}

// PutPoem stores poem under poet, keyed by its title.
// The poet must already exist and the poem's author must equal the poet.
// It reports whether an existing poem with the same title was replaced.
func (a *Anthology) PutPoem(poet string, poem *Poem) (bool, error) {
	if poem == nil {
		return false, errors.New("nil poem")
	}
	if poem.Author != poet {
		return false, fmt.Errorf("%w: poet %q, author %q", ErrAuthorMismatch, poet, poem.Author)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.mapping[poet]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownPoet, poet)
	}
	if entry.Poems == nil {
		entry.Poems = make(map[string]*Poem)
	}
	_, replaced := entry.Poems[poem.Title]
	entry.Poems[poem.Title] = poem.Clone()
	return replaced, nil
}

// Len returns the number of poets.
func (a *Anthology) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.mapping)
}

// Snapshot returns a deep copy of the mapping, safe to persist while
// workers keep writing.
func (a *Anthology) Snapshot() Mapping {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mapping.Clone()
}
