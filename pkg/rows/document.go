package rows

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// readDocument accepts a YAML or JSON sequence of flat mappings. Column order
// follows first appearance of each key so the header stays stable.
func readDocument(r io.Reader) ([][]string, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("rows: parse document: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("rows: document must be a list of rows, line %d", root.Line)
	}

	var (
		header  []string
		columns = make(map[string]int)
		entries []map[int]string
	)
	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("rows: row at line %d must be a mapping", item.Line)
		}
		entry := make(map[int]string, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i], item.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("rows: field %q at line %d must be a scalar", key.Value, value.Line)
			}
			idx, ok := columns[key.Value]
			if !ok {
				idx = len(header)
				columns[key.Value] = idx
				header = append(header, key.Value)
			}
			if value.Tag != "!!null" {
				entry[idx] = value.Value
			}
		}
		entries = append(entries, entry)
	}

	grid := make([][]string, 0, len(entries)+1)
	grid = append(grid, header)
	for _, entry := range entries {
		row := make([]string, len(header))
		for idx, value := range entry {
			row[idx] = value
		}
		grid = append(grid, row)
	}
	return grid, nil
}
