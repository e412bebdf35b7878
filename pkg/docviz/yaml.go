package docviz

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pyfmt/pkg/doc"
)

// ToYAML encodes a document tree as YAML with two-space indentation.
func ToYAML(root *doc.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a tree written by [ToYAML].
func FromYAML(data []byte) (*doc.Node, error) {
	var n doc.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &n, nil
}
