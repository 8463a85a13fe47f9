// Package document loads CI configuration files into an ordered, tagged value tree
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Error types for the document package
var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrMultipleDocuments = errors.New("expected a single YAML document")
	ErrUnsupportedShape  = errors.New("unsupported shape")
)

// Document is the parsed content of one file
type Document struct {
	// Path is the file the document was loaded from
	Path string
	// Root is the top-level value, usually a mapping
	Root *Value
}

// Loader reads a file and parses it into a Document
type Loader interface {
	Load(path string) (*Document, error)
}

// FileLoader implements Loader for files on the local filesystem
type FileLoader struct {
	// Lenient drops invalid UTF-8 sequences before parsing
	Lenient bool
}

// NewFileLoader creates a new FileLoader
func NewFileLoader(lenient bool) *FileLoader {
	return &FileLoader{Lenient: lenient}
}

// Load reads path and parses its content
func (l *FileLoader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if l.Lenient {
		data = []byte(strings.ToValidUTF8(string(data), ""))
	}
	return Parse(path, data)
}

// Parse decodes a single YAML document
func Parse(path string, data []byte) (*Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var node yaml.Node
	if err := decoder.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil, ErrMultipleDocuments
	}

	root := convert(&node)
	if root.Kind() == KindNull {
		return nil, ErrEmptyDocument
	}

	return &Document{Path: path, Root: root}, nil
}

// convert turns a yaml.v3 node tree into a Value tree
func convert(n *yaml.Node) *Value {
	if n == nil {
		return &Value{kind: KindNull}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Value{kind: KindNull, line: n.Line}
		}
		return convert(n.Content[0])
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return &Value{kind: KindNull, line: n.Line}
		}
		return &Value{kind: KindScalar, scalar: n.Value, tag: n.Tag, line: n.Line}
	case yaml.MappingNode:
		v := &Value{kind: KindMapping, index: make(map[string]int), line: n.Line}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			// Complex keys cannot name jobs or directives
			if key.Kind != yaml.ScalarNode {
				continue
			}
			v.set(key.Value, convert(n.Content[i+1]))
		}
		return v
	case yaml.SequenceNode:
		v := &Value{kind: KindSequence, items: make([]*Value, 0, len(n.Content)), line: n.Line}
		for _, item := range n.Content {
			v.items = append(v.items, convert(item))
		}
		return v
	default:
		return &Value{kind: KindUnsupported, line: n.Line}
	}
}
