// Package registry holds the per-schema tables that let one decoder drive a
// heterogeneous set of child decoders.
//
// Each Entry carries a constructor for a Step: a closure specialised over one
// child's concrete type that resumes that child's decoding and, once it
// completes, writes the result into its own slot of a shared target S. The
// owning decoder only ever sees Step[S], so children of different types live
// side by side without reflection.
package registry

import (
	"fmt"
	"math/bits"

	"github.com/reoring/streamskema/stream"
)

// Step resumes one child decode. It returns stream.ErrNeedMoreData to
// suspend and is called again with the same target until it returns nil or a
// terminal error.
type Step[S any] func(s *stream.Stream, target *S) error

// Entry is one named child of a Table.
type Entry[S any] struct {
	Name    string
	Index   int
	NewStep func() Step[S]
}

// Table maps child names to entries. It is built once per schema instance
// and read-only afterwards, so decoders may share it.
type Table[S any] struct {
	entries []Entry[S]
	index   map[string]int
}

// New returns an empty table.
func New[S any]() *Table[S] {
	return &Table[S]{index: map[string]int{}}
}

// Add appends an entry and returns its index. Names must be unique.
func (t *Table[S]) Add(name string, newStep func() Step[S]) (int, error) {
	if _, dup := t.index[name]; dup {
		return 0, fmt.Errorf("registry: duplicate name %q", name)
	}
	i := len(t.entries)
	t.entries = append(t.entries, Entry[S]{Name: name, Index: i, NewStep: newStep})
	t.index[name] = i
	return i, nil
}

// MustAdd is Add for construction-time tables; a duplicate name panics.
func (t *Table[S]) MustAdd(name string, newStep func() Step[S]) int {
	i, err := t.Add(name, newStep)
	if err != nil {
		panic(err)
	}
	return i
}

// Lookup finds the entry registered under name.
func (t *Table[S]) Lookup(name string) (Entry[S], bool) {
	i, ok := t.index[name]
	if !ok {
		return Entry[S]{}, false
	}
	return t.entries[i], true
}

// At returns the entry at index i.
func (t *Table[S]) At(i int) Entry[S] { return t.entries[i] }

// Len returns the number of entries.
func (t *Table[S]) Len() int { return len(t.entries) }

// Names returns the entry names in registration order.
func (t *Table[S]) Names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Name
	}
	return out
}

// Seen is a small bit set of entry indexes visited during one decode.
type Seen struct {
	words []uint64
}

// Mark records i and reports whether it was newly marked.
func (s *Seen) Mark(i int) bool {
	w, b := i/64, uint(i%64)
	for len(s.words) <= w {
		s.words = append(s.words, 0)
	}
	if s.words[w]&(1<<b) != 0 {
		return false
	}
	s.words[w] |= 1 << b
	return true
}

// Has reports whether i is marked.
func (s *Seen) Has(i int) bool {
	w := i / 64
	return w < len(s.words) && s.words[w]&(1<<uint(i%64)) != 0
}

// Count returns the number of marked indexes.
func (s *Seen) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Reset clears every mark.
func (s *Seen) Reset() {
	for i := range s.words {
		s.words[i] = 0
	}
}
