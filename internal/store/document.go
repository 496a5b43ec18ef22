package store

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Document is one decoded task file. It keeps the YAML node tree so that a
// rewritten file preserves the author's key order, comments, and any fields
// this program does not know about.
type Document struct {
	root yaml.Node
}

// ParseDocument decodes YAML bytes. Only the first document in the stream is
// read.
func ParseDocument(data []byte) (*Document, error) {
	d := &Document{}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDocument builds a mapping document from key/value pairs, in order.
// It is mostly useful for tests and fixtures.
func NewDocument(pairs ...any) (*Document, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("new document: odd number of arguments")
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("new document: key %v is not a string", pairs[i])
		}
		var val yaml.Node
		if err := val.Encode(pairs[i+1]); err != nil {
			return nil, fmt.Errorf("new document: encode %s: %w", key, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &val)
	}
	return &Document{root: yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}}}, nil
}

// body returns the top-level value node, or nil for an empty stream.
func (d *Document) body() *yaml.Node {
	if d == nil {
		return nil
	}
	n := &d.root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	if n.Kind == 0 {
		return nil
	}
	return n
}

// IsEmpty reports whether the document carries no task: an empty stream,
// null, an empty mapping or sequence, or a false-like scalar.
func (d *Document) IsEmpty() bool {
	n := d.body()
	if n == nil {
		return true
	}
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return len(n.Content) == 0
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return true
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			return err == nil && !b
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			return err == nil && f == 0
		case "!!str":
			return n.Value == ""
		}
	}
	return false
}

// Fields decodes the document into a generic map. Returns
// types.ErrNotMapping if the top-level value is not a mapping.
func (d *Document) Fields() (map[string]any, error) {
	n := d.body()
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, types.ErrNotMapping
	}
	fields := make(map[string]any, len(n.Content)/2)
	if err := n.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

// Set assigns a string value to a top-level key, replacing the existing
// value in place or appending the key at the end.
func (d *Document) Set(key, value string) error {
	n := d.body()
	if n == nil || n.Kind != yaml.MappingNode {
		return types.ErrNotMapping
	}
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			n.Content[i+1] = val
			return nil
		}
	}
	n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
	return nil
}

// Marshal encodes the document back to YAML with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}
