package engine

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlSource flattens the first YAML document of a stream into tokens. The
// yaml.v3 node tree keeps mapping order, so the result decodes the same way a
// JSON document with the same layout would.
type yamlSource struct {
	r      io.Reader
	toks   []Token
	pos    int
	loaded bool
	err    error
}

// NewYAMLReader returns a TokenSource reading YAML from r. Parsing happens on
// the first call to NextToken.
func NewYAMLReader(r io.Reader) TokenSource { return &yamlSource{r: r} }

func (s *yamlSource) Location() int64 { return -1 }

func (s *yamlSource) NextToken() (Token, error) {
	if !s.loaded {
		s.loaded = true
		s.err = s.load()
	}
	if s.err != nil {
		return Token{}, s.err
	}
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *yamlSource) load() error {
	var doc yaml.Node
	if err := yaml.NewDecoder(s.r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("engine: yaml: %w", err)
	}
	return s.walk(&doc, 0)
}

const maxAliasDepth = 64

func (s *yamlSource) walk(n *yaml.Node, aliases int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.emit(Token{Kind: KindNull})
			return nil
		}
		return s.walk(n.Content[0], aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return fmt.Errorf("engine: yaml: alias %q too deep or undefined (line %d)", n.Value, n.Line)
		}
		return s.walk(n.Alias, aliases+1)
	case yaml.MappingNode:
		s.emit(Token{Kind: KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("engine: yaml: non-scalar mapping key at line %d", k.Line)
			}
			s.emit(Token{Kind: KindKey, String: k.Value})
			if err := s.walk(n.Content[i+1], aliases); err != nil {
				return err
			}
		}
		s.emit(Token{Kind: KindEndObject})
	case yaml.SequenceNode:
		s.emit(Token{Kind: KindBeginArray})
		for _, c := range n.Content {
			if err := s.walk(c, aliases); err != nil {
				return err
			}
		}
		s.emit(Token{Kind: KindEndArray})
	case yaml.ScalarNode:
		return s.scalar(n)
	default:
		return fmt.Errorf("engine: yaml: unexpected node kind %d at line %d", n.Kind, n.Line)
	}
	return nil
}

func (s *yamlSource) scalar(n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		s.emit(Token{Kind: KindNull})
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fmt.Errorf("engine: yaml: line %d: %w", n.Line, err)
		}
		s.emit(Token{Kind: KindBool, Bool: b})
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return fmt.Errorf("engine: yaml: line %d: %w", n.Line, err)
		}
		var i int64
		if n.ShortTag() == "!!int" && n.Decode(&i) == nil {
			s.emit(Token{Kind: KindNumber, Number: fmt.Sprint(i)})
			return nil
		}
		s.emit(Token{Kind: KindNumber, Number: fmt.Sprint(f)})
	default:
		s.emit(Token{Kind: KindString, String: n.Value})
	}
	return nil
}

func (s *yamlSource) emit(t Token) {
	t.Offset = -1
	s.toks = append(s.toks, t)
}
