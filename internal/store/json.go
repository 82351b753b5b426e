package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nao1215/diwan/internal/model"
)

// JSONStore persists the mapping in a single JSON file.
type JSONStore struct {
	Path string
}

// NewJSONStore creates a JSONStore for path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

// Load reads the file. A missing file yields an empty mapping.
func (s *JSONStore) Load(_ context.Context) (model.Mapping, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return make(model.Mapping), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	var m model.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	if m == nil {
		m = make(model.Mapping)
	}
	for name, poet := range m {
		if poet == nil {
			m[name] = model.NewPoet(name)
		}
	}
	return m, nil
}

// Save rewrites the whole file with 4-space indentation.
// Non-ASCII text is written as UTF-8, not escaped.
func (s *JSONStore) Save(_ context.Context, m model.Mapping) error {
	data, err := MarshalMapping(m)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

// EachPoet calls fn for every selected poet of the file.
func (s *JSONStore) EachPoet(ctx context.Context, names []string, fn func(*model.Poet) error) ([]string, error) {
	m, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return EachPoet(m, names, fn)
}

// EachPoet calls fn for the poets of m named in names, in that order.
// An empty names selects every poet in name order. Names not present in
// m are returned as missing.
func EachPoet(m model.Mapping, names []string, fn func(*model.Poet) error) ([]string, error) {
	if len(names) == 0 {
		names = m.Names()
	}
	var missing []string
	for _, name := range names {
		poet, ok := m[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if err := fn(poet); err != nil {
			return missing, err
		}
	}
	return missing, nil
}

// MarshalMapping encodes m the way JSONStore writes it.
func MarshalMapping(m model.Mapping) ([]byte, error) {
	if m == nil {
		m = make(model.Mapping)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode mapping: %w", err)
	}
	return buf.Bytes(), nil
}

// sortedPoems returns the poems of p ordered by title.
func sortedPoems(p *model.Poet) []*model.Poem {
	poems := make([]*model.Poem, 0, len(p.Poems))
	for _, poem := range p.Poems {
		poems = append(poems, poem)
	}
	sort.Slice(poems, func(i, j int) bool { return poems[i].Title < poems[j].Title })
	return poems
}
