package synthdoc

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Document is a generated document. It is immutable once returned.
type Document struct {
	root *Object
	seed uint64
	data []byte
}

func newDocument(root *Object, seed uint64) (*Document, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, &InternalFault{Op: "serialize", Cause: err}
	}
	return &Document{root: root, seed: seed, data: data}, nil
}

// Root returns a copy of the document tree.
func (d *Document) Root() *Object { return d.root.Clone() }

// Seed returns the seed the document was generated with.
func (d *Document) Seed() uint64 { return d.seed }

// Bytes returns the canonical compact JSON text. Keys follow schema
// declaration order.
func (d *Document) Bytes() []byte { return bytes.Clone(d.data) }

// Indent returns the JSON text indented with the given prefix and indent.
func (d *Document) Indent(prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, d.data, prefix, indent); err != nil {
		return nil, &InternalFault{Op: "indent", Cause: err}
	}
	return buf.Bytes(), nil
}

// MarshalJSON returns the canonical JSON text.
func (d *Document) MarshalJSON() ([]byte, error) { return d.Bytes(), nil }
