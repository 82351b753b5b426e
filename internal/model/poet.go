package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAuthorMismatch is returned when a poem's author differs from the key
// of the poet it is stored under.
var ErrAuthorMismatch = errors.New("poem author does not match poet")

// Poet is a poet entry of the mapping.
type Poet struct {
	// Name is the poet display name extracted from the poet page.
	// It is also the key of the poet in the Mapping.
	Name string `json:"name"`

	// Poems maps poem title to poem. Duplicate titles overwrite.
	Poems map[string]*Poem `json:"poems"`
}

// NewPoet creates an empty poet entry.
func NewPoet(name string) *Poet {
	return &Poet{
		Name:  name,
		Poems: make(map[string]*Poem),
	}
}

// Titles returns the poem titles sorted lexically.
func (p *Poet) Titles() []string {
	titles := make([]string, 0, len(p.Poems))
	for title := range p.Poems {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Clone returns a deep copy of the poet.
func (p *Poet) Clone() *Poet {
	if p == nil {
		return nil
	}
	c := NewPoet(p.Name)
	for title, poem := range p.Poems {
		c.Poems[title] = poem.Clone()
	}
	return c
}

// Mapping is the poet name keyed snapshot that is persisted to storage.
type Mapping map[string]*Poet

// Names returns the poet names sorted lexically.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PoemCount returns the total number of poems across all poets.
func (m Mapping) PoemCount() int {
	n := 0
	for _, poet := range m {
		n += len(poet.Poems)
	}
	return n
}

// Clone returns a deep copy of the mapping.
func (m Mapping) Clone() Mapping {
	c := make(Mapping, len(m))
	for name, poet := range m {
		c[name] = poet.Clone()
	}
	return c
}

// Validate checks the ownership invariant: every poem's author equals the
// key of its poet and every poet's name equals its key.
// Violations are joined into a single error.
func (m Mapping) Validate() error {
	var errs []error
	for _, name := range m.Names() {
		poet := m[name]
		if poet == nil {
			errs = append(errs, fmt.Errorf("poet %q: nil entry", name))
			continue
		}
		if poet.Name != name {
			errs = append(errs, fmt.Errorf("poet %q: name field is %q", name, poet.Name))
		}
		for _, title := range poet.Titles() {
			if poem := poet.Poems[title]; poem.Author != name {
				errs = append(errs, fmt.Errorf("poet %q poem %q: %w (author %q)", name, title, ErrAuthorMismatch, poem.Author))
			}
		}
	}
	return errors.Join(errs...)
}
