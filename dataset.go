package synthdoc

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// Dataset maps field names to pools of candidate string values.
//
// Its source is a flat object with one entry per field. Each entry is itself
// an object, and the pool is the array stored under that entry's first key:
//
//	{"givenName": {"names": ["Anna", "Bram"]}}
type Dataset struct {
	pools  map[string][]string
	fields []string
}

// LoadDataset decodes a dataset document from src.
func LoadDataset(ctx context.Context, src Source, opts ...LoadOpt) (*Dataset, error) {
	raw, err := decodeSource(ctx, src, loadOpt(opts))
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return NewDataset(raw)
}

// NewDataset builds a Dataset from a decoded tree.
func NewDataset(raw any) (*Dataset, error) {
	if m, ok := raw.(map[string]any); ok {
		raw = toOrdered(m)
	}
	root, ok := raw.(*Object)
	if !ok || root == nil {
		return nil, badRequest("dataset must be a JSON object, got %T", raw)
	}
	ds := &Dataset{pools: make(map[string][]string, root.Len())}
	for _, m := range root.Members() {
		entry, ok := m.Value.(*Object)
		if !ok {
			return nil, badRequest("dataset entry %q must be an object", m.Key)
		}
		first, ok := entry.First()
		if !ok {
			continue
		}
		vals, ok := first.Value.([]any)
		if !ok {
			return nil, badRequest("dataset entry %q: value of %q must be an array", m.Key, first.Key)
		}
		pool := make([]string, 0, len(vals))
		for i, v := range vals {
			s, ok := scalarText(v)
			if !ok {
				return nil, badRequest("dataset entry %q: element %d is not a scalar", m.Key, i)
			}
			pool = append(pool, s)
		}
		if len(pool) == 0 {
			continue
		}
		ds.pools[m.Key] = pool
		ds.fields = append(ds.fields, m.Key)
	}
	return ds, nil
}

// Pool returns the candidates for field. A nil Dataset has no pools.
func (d *Dataset) Pool(field string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	p, ok := d.pools[field]
	return p, ok
}

// Fields lists the fields that have a non-empty pool, in document order.
func (d *Dataset) Fields() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.fields...)
}

// Len reports the number of non-empty pools.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool, float64, int, int64:
		return fmt.Sprint(t), true
	}
	return "", false
}
