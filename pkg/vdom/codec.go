package vdom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a tree document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidDocument is wrapped by every decode error caused by the
// document's shape rather than its syntax.
var ErrInvalidDocument = errors.New("vdom: invalid tree document")

// ErrUnknownFormat is returned for a format name that is neither JSON nor YAML.
var ErrUnknownFormat = errors.New("vdom: unknown tree format")

// ParseFormat maps a name, file extension or media type to a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	switch strings.TrimPrefix(s, ".") {
	case "json", "application/json", "text/json":
		return FormatJSON, nil
	case "yaml", "yml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks a Format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatJSON
}

// document is the interchange shape shared by JSON and YAML:
//
//	{"tag": "div", "children": [...]}   element
//	{"text": "hello"} or "hello"        text
//	null or {}                          empty
type document struct {
	Tag      string      `json:"tag,omitempty" yaml:"tag,omitempty"`
	Text     *string     `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*document `json:"children,omitempty" yaml:"children,omitempty"`
}

type documentFields document

// UnmarshalJSON accepts a bare string as shorthand for a text node.
func (d *document) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d.Text = &s
		return nil
	}
	return json.Unmarshal(data, (*documentFields)(d))
}

// UnmarshalYAML accepts a bare scalar as shorthand for a text node.
func (d *document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
		s := value.Value
		d.Text = &s
		return nil
	}
	return value.Decode((*documentFields)(d))
}

// Decode parses a tree document.
func Decode(data []byte, format Format) (Node, error) {
	var doc *document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("vdom: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("vdom: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fromDocument(doc, "$")
}

// Encode serializes a tree in the interchange shape.
func Encode(n Node, format Format) ([]byte, error) {
	doc := toDocument(n)
	switch format {
	case FormatJSON:
		return json.Marshal(doc)
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func fromDocument(d *document, path string) (Node, error) {
	if d == nil {
		return EmptyNode{}, nil
	}

	switch {
	case d.Text != nil && (d.Tag != "" || len(d.Children) > 0):
		return nil, fmt.Errorf("%w: %s: text node cannot have a tag or children", ErrInvalidDocument, path)
	case d.Text != nil:
		return Text(*d.Text), nil
	case d.Tag == "" && len(d.Children) > 0:
		return nil, fmt.Errorf("%w: %s: children without a tag", ErrInvalidDocument, path)
	case d.Tag == "":
		return EmptyNode{}, nil
	}

	children := make([]Node, 0, len(d.Children))
	for i, c := range d.Children {
		child, err := fromDocument(c, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return Element(d.Tag, children...), nil
}

func toDocument(n Node) *document {
	switch v := normalize(n).(type) {
	case TextNode:
		s := v.content
		return &document{Text: &s}
	case *ElementNode:
		d := &document{Tag: v.tag}
		for _, c := range v.children {
			d.Children = append(d.Children, toDocument(c))
		}
		return d
	}
	return nil
}
