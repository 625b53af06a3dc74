package synthdoc

import json "github.com/goccy/go-json"

// Kind is the classification of a schema node.
type Kind int

const (
	KindUnsupported Kind = iota
	KindObject
	KindString
	KindNumber
	KindBoolean
	KindArray
	// KindEnum picks one declared value uniformly. String values come out as
	// strings; other values are emitted as declared so the document matches the enum.
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	}
	return "unsupported"
}

// Node is a resolved schema node. It contains no $ref and is never modified
// after Resolve returns, so a tree may be shared between goroutines.
type Node struct {
	Kind Kind
	// Type is the literal "type" keyword ("" when absent). For
	// KindUnsupported it is the offending value.
	Type string
	// Pointer locates the node inside the resolved schema.
	Pointer    string
	Properties []Property
	Items      *Node
	Enum       []any
	MaxLength  *int
	Required   []string
	// Extra holds keywords that are kept but not interpreted.
	Extra []Member

	raw any
}

// Property is a named entry of an object node, in declaration order.
type Property struct {
	Name   string
	Schema *Node
}

// Property returns the sub-schema declared under name.
func (n *Node) Property(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Walk calls fn for n and every node below it, parents first. fn receives the
// property name the node was declared under ("" for the root and for items).
// Returning an error stops the walk.
func (n *Node) Walk(fn func(name string, n *Node) error) error {
	return n.walk("", fn)
}

func (n *Node) walk(name string, fn func(string, *Node) error) error {
	if n == nil {
		return nil
	}
	if err := fn(name, n); err != nil {
		return err
	}
	for _, p := range n.Properties {
		if err := p.Schema.walk(p.Name, fn); err != nil {
			return err
		}
	}
	return n.Items.walk("", fn)
}

// Raw returns the resolved schema object with every $ref inlined.
func (n *Node) Raw() *Object {
	if n == nil {
		return nil
	}
	o, _ := n.raw.(*Object)
	return o
}

// MarshalJSON emits the inlined schema, keywords in declaration order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}
