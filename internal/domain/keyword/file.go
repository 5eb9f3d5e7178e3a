package keyword

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a parsed keyword file: an expansion table plus an optional names pool.
//
//	names: [뱀, 돼지, 용]
//	keywords:
//	  무서운: [귀신, 괴물]
//	  좋은 꿈: [돼지, 용]
//
// Mapping order in "keywords" is kept.
type File struct {
	Table *Table
	Names []string
}

type fileDoc struct {
	Names    []string  `yaml:"names"`
	Keywords yaml.Node `yaml:"keywords"`
}

// Parse decodes a keyword file.
func Parse(r io.Reader) (File, error) {
	var doc fileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return File{}, fmt.Errorf("decode keyword file: %w", err)
	}

	entries, err := entriesFromNode(&doc.Keywords)
	if err != nil {
		return File{}, err
	}
	if len(entries) == 0 {
		return File{}, ErrEmptyTable
	}

	table, err := New(entries)
	if err != nil {
		return File{}, fmt.Errorf("build keyword table: %w", err)
	}
	return File{Table: table, Names: doc.Names}, nil
}

// LoadFile reads and parses the keyword file at path.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path) //nolint:gosec // path from operator config
	if err != nil {
		return File{}, fmt.Errorf("open keyword file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

func entriesFromNode(n *yaml.Node) ([]Entry, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("keywords: expected mapping at line %d", n.Line)
	}

	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var kws []string
		if err := val.Decode(&kws); err != nil {
			return nil, fmt.Errorf("keywords.%s (line %d): %w", key.Value, val.Line, err)
		}
		entries = append(entries, Entry{Phrase: key.Value, Keywords: kws})
	}
	return entries, nil
}
