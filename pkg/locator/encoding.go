// File: pkg/locator/encoding.go
package locator

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// YAML tags for values that have no plain scalar form.
const (
	tagRegexp  = "!regexp"
	tagIRegexp = "!iregexp"
	tagSymbol  = "!sym"
	tagNot     = "!not"
)

// MarshalJSON writes the selector as a JSON object in entry order. Patterns,
// symbols and negations become single-purpose objects:
// {"regexp": "..", "ignore_case": true}, {"symbol": ".."}, {"not": ".."}.
func (s Selector) MarshalJSON() ([]byte, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	writeSelector(stream, s)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// MarshalJSON writes the flat form of the result.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.Selector().MarshalJSON()
}

func writeSelector(stream *jsoniter.Stream, s Selector) {
	stream.WriteObjectStart()
	for i, e := range s {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(e.Key)
		writeValue(stream, e.Value)
	}
	stream.WriteObjectEnd()
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch val := v.(type) {
	case String:
		stream.WriteString(string(val))
	case Bool:
		stream.WriteBool(bool(val))
	case Int:
		stream.WriteInt(int(val))
	case Symbol:
		stream.WriteObjectStart()
		stream.WriteObjectField("symbol")
		stream.WriteString(string(val))
		stream.WriteObjectEnd()
	case Not:
		stream.WriteObjectStart()
		stream.WriteObjectField("not")
		stream.WriteString(string(val))
		stream.WriteObjectEnd()
	case Pattern:
		stream.WriteObjectStart()
		stream.WriteObjectField("regexp")
		stream.WriteString(val.Source)
		if val.IgnoreCase {
			stream.WriteMore()
			stream.WriteObjectField("ignore_case")
			stream.WriteBool(true)
		}
		stream.WriteObjectEnd()
	case List:
		stream.WriteArrayStart()
		for i, item := range val {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, item)
		}
		stream.WriteArrayEnd()
	default:
		stream.WriteNil()
	}
}

// MarshalYAML renders the selector as an ordered mapping with tagged
// patterns, symbols and negations.
func (s Selector) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			valueNode(e.Value))
	}
	return node, nil
}

// MarshalYAML writes the flat form of the result.
func (r *Result) MarshalYAML() (interface{}, error) {
	return r.Selector().MarshalYAML()
}

func valueNode(v Value) *yaml.Node {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	switch val := v.(type) {
	case String:
		return scalar("!!str", string(val))
	case Bool:
		return scalar("!!bool", val.Inspect())
	case Int:
		return scalar("!!int", val.Inspect())
	case Symbol:
		return scalar(tagSymbol, string(val))
	case Not:
		return scalar(tagNot, string(val))
	case Pattern:
		if val.IgnoreCase {
			return scalar(tagIRegexp, val.Source)
		}
		return scalar(tagRegexp, val.Source)
	case List:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range val {
			seq.Content = append(seq.Content, valueNode(item))
		}
		return seq
	}
	return scalar("!!null", "null")
}

// UnmarshalYAML decodes an ordered mapping into a selector. JSON documents
// decode the same way.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.ShortTag() == "!!null" {
		*s = Selector{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: selector must be a mapping", node.Line)
	}

	sel := make(Selector, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: selector keys must be scalars", k.Line)
		}
		val, err := decodeValue(k.Value, v)
		if err != nil {
			return err
		}
		sel = append(sel, Entry{Key: k.Value, Value: val})
	}
	*s = sel
	return nil
}

func decodeValue(key string, n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeValue(key, n.Alias)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decodeValue(key, item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		return decodeTagged(key, n)
	case yaml.ScalarNode:
		return decodeScalar(key, n)
	}
	return nil, fmt.Errorf("line %d: unsupported value for %s", n.Line, key)
}

func decodeScalar(key string, n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case tagRegexp:
		return Regexp(n.Value), nil
	case tagIRegexp:
		return IRegexp(n.Value), nil
	case tagSymbol:
		return Symbol(n.Value), nil
	case tagNot:
		return Not(n.Value), nil
	case "!!int":
		var i int
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", n.Line, key, err)
		}
		return Int(i), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", n.Line, key, err)
		}
		return Bool(b), nil
	case "!!null":
		return nil, fmt.Errorf("line %d: %s has no value", n.Line, key)
	}
	// Directions are symbols; plain JSON has no way to say so.
	if CanonicalKey(key) == KeyAdjacent {
		return Symbol(n.Value), nil
	}
	return String(n.Value), nil
}

func decodeTagged(key string, n *yaml.Node) (Value, error) {
	var tagged struct {
		Regexp     *string `yaml:"regexp"`
		IgnoreCase bool    `yaml:"ignore_case"`
		Symbol     *string `yaml:"symbol"`
		Not        *string `yaml:"not"`
	}
	if err := n.Decode(&tagged); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", n.Line, key, err)
	}
	switch {
	case tagged.Regexp != nil:
		return Pattern{Source: *tagged.Regexp, IgnoreCase: tagged.IgnoreCase}, nil
	case tagged.Symbol != nil:
		return Symbol(*tagged.Symbol), nil
	case tagged.Not != nil:
		return Not(*tagged.Not), nil
	}
	return nil, fmt.Errorf("line %d: %s: expected one of regexp, symbol or not", n.Line, key)
}

// DecodeSelectors reads every YAML (or JSON) document from r as a selector.
func DecodeSelectors(r io.Reader) ([]Selector, error) {
	dec := yaml.NewDecoder(r)
	var out []Selector
	for {
		var sel Selector
		err := dec.Decode(&sel)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode selector %d: %w", len(out)+1, err)
		}
		out = append(out, sel)
	}
}

// ParseSelector decodes a single selector document.
func ParseSelector(data []byte) (Selector, error) {
	sels, err := DecodeSelectors(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(sels) != 1 {
		return nil, fmt.Errorf("expected one selector document, got %d", len(sels))
	}
	return sels[0], nil
}
