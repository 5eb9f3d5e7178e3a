// Package keyword holds the natural-language keyword expansion table.
//
// The table maps a phrase a visitor is likely to type ("무서운 꿈") to literal
// symbol keywords that appear in names and tags. It is immutable once built and
// safe for concurrent use.
package keyword

import (
	"errors"
	"fmt"
)

// Entry is one phrase and its expansion.
type Entry struct {
	Phrase   string
	Keywords []string
}

// Table is an ordered, immutable phrase -> keywords mapping.
type Table struct {
	phrases    []string
	expansions map[string][]string
}

// New builds a Table. Phrase order is preserved (autocomplete relies on it).
func New(entries []Entry) (*Table, error) {
	t := &Table{
		phrases:    make([]string, 0, len(entries)),
		expansions: make(map[string][]string, len(entries)),
	}
	for i, e := range entries {
		if e.Phrase == "" {
			return nil, fmt.Errorf("entry %d: phrase is required", i)
		}
		if _, dup := t.expansions[e.Phrase]; dup {
			return nil, fmt.Errorf("entry %d: duplicate phrase %q", i, e.Phrase)
		}
		kws := make([]string, 0, len(e.Keywords))
		for _, k := range e.Keywords {
			if k == "" {
				return nil, fmt.Errorf("entry %d (%q): empty keyword", i, e.Phrase)
			}
			kws = append(kws, k)
		}
		t.phrases = append(t.phrases, e.Phrase)
		t.expansions[e.Phrase] = kws
	}
	return t, nil
}

// MustNew is New that panics; for package-level tables.
func MustNew(entries []Entry) *Table {
	t, err := New(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Expand returns the keywords for phrase (verbatim lookup), nil when absent.
func (t *Table) Expand(phrase string) []string {
	if t == nil {
		return nil
	}
	kws, ok := t.expansions[phrase]
	if !ok {
		return nil
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Phrases returns all phrases in table order.
func (t *Table) Phrases() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.phrases))
	copy(out, t.phrases)
	return out
}

// Len returns the number of phrases.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.phrases)
}

// ErrEmptyTable is returned by loaders that produced no phrases.
var ErrEmptyTable = errors.New("keyword table is empty")
