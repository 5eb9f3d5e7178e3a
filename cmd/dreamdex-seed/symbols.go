package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

// symbolDoc is one record of a seed file.
type symbolDoc struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Tags       []string  `yaml:"tags"`
	Summary    string    `yaml:"summary"`
	Popularity int64     `yaml:"popularity"`
	UpdatedAt  time.Time `yaml:"updated_at"`
}

type seedDoc struct {
	Symbols []symbolDoc `yaml:"symbols"`
}

// parseSymbols decodes a seed file. Records without an id get a random UUID.
func parseSymbols(r io.Reader, newID func() string) ([]candidate.Candidate, error) {
	var doc seedDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode symbols: %w", err)
	}

	out := make([]candidate.Candidate, 0, len(doc.Symbols))
	seen := make(map[string]int, len(doc.Symbols))
	for i, s := range doc.Symbols {
		id := s.ID
		if id == "" {
			id = newID()
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("symbol %d: duplicate id %q (first at %d)", i, id, prev)
		}
		seen[id] = i

		c, err := candidate.New(id, s.Name, s.Tags, s.Summary, s.Popularity, s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("symbol %d (%q): %w", i, s.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func loadSymbols(path string) ([]candidate.Candidate, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return parseSymbols(f, uuid.NewString)
}
