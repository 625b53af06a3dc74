package engine

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// jsonSource adapts the goccy/go-json token decoder to TokenSource. The
// decoder does not distinguish keys from string values, so a small container
// stack tracks whether the next string in an object is a key.
type jsonSource struct {
	dec     *json.Decoder
	inObj   []bool // one entry per open container; true for objects
	wantKey []bool
}

// NewJSONReader returns a TokenSource reading JSON from r. Numbers are kept
// as their literal text.
func NewJSONReader(r io.Reader) TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// NewJSONBytes returns a TokenSource over b.
func NewJSONBytes(b []byte) TokenSource { return NewJSONReader(bytes.NewReader(b)) }

func (s *jsonSource) Location() int64 { return -1 }

func (s *jsonSource) push(obj bool) {
	s.inObj = append(s.inObj, obj)
	s.wantKey = append(s.wantKey, obj)
}

func (s *jsonSource) pop() {
	if n := len(s.inObj); n > 0 {
		s.inObj = s.inObj[:n-1]
		s.wantKey = s.wantKey[:n-1]
	}
	s.valueDone()
}

// valueDone marks a complete value; inside an object the next string is a key.
func (s *jsonSource) valueDone() {
	if n := len(s.inObj); n > 0 && s.inObj[n-1] {
		s.wantKey[n-1] = true
	}
}

func (s *jsonSource) NextToken() (Token, error) {
	raw, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	tok := Token{Offset: -1}
	switch v := raw.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.push(true)
			tok.Kind = KindBeginObject
		case '[':
			s.push(false)
			tok.Kind = KindBeginArray
		case '}':
			s.pop()
			tok.Kind = KindEndObject
		case ']':
			s.pop()
			tok.Kind = KindEndArray
		}
		return tok, nil
	case string:
		if n := len(s.inObj); n > 0 && s.inObj[n-1] && s.wantKey[n-1] {
			s.wantKey[n-1] = false
			return Token{Kind: KindKey, String: v, Offset: -1}, nil
		}
		tok.Kind, tok.String = KindString, v
	case bool:
		tok.Kind, tok.Bool = KindBool, v
	case json.Number:
		tok.Kind, tok.Number = KindNumber, string(v)
	case float64:
		tok.Kind, tok.Number = KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		tok.Kind = KindNull
	default:
		return Token{}, fmt.Errorf("engine: unsupported json token %T", raw)
	}
	s.valueDone()
	return tok, nil
}
