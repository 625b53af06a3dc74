package synthdoc

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	eng "github.com/reoring/synthdoc/internal/engine"
)

const defsPrefix = "#/$defs/"

// LoadSchema decodes a schema document from src and resolves it.
func LoadSchema(ctx context.Context, src Source, opts ...LoadOpt) (*Node, error) {
	raw, err := decodeSource(ctx, src, loadOpt(opts))
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return Resolve(raw)
}

// Resolve inlines every $ref reachable through properties and items and
// classifies each node. Refs must point at an entry of the root $defs
// ("#/$defs/<name>"); chains of refs are followed. Keywords written next to a
// $ref override the same keywords of the definition.
//
// raw is usually a decoded *Object. A map[string]any is accepted as well, its
// keys taken in sorted order.
func Resolve(raw any) (*Node, error) {
	if m, ok := raw.(map[string]any); ok {
		raw = toOrdered(m)
	}
	root, ok := raw.(*Object)
	if !ok || root == nil {
		return nil, badRequest("schema must be a JSON object, got %T", raw)
	}
	r := &resolver{}
	if d, ok := root.Get("$defs"); ok {
		defs, ok := d.(*Object)
		if !ok {
			return nil, badRequest("$defs must be an object")
		}
		r.defs = defs
	}
	return r.node(root, "")
}

type resolver struct {
	defs  *Object
	stack []string // definition names being expanded, outermost first
}

func (r *resolver) node(raw any, ptr string) (*Node, error) {
	obj, ok := raw.(*Object)
	if !ok {
		return &Node{Kind: KindUnsupported, Type: typeLiteral(raw), Pointer: pathOrRoot(ptr), raw: raw}, nil
	}
	obj, pushed, err := r.deref(obj, ptr)
	if err != nil {
		return nil, err
	}
	defer func() { r.stack = r.stack[:len(r.stack)-pushed] }()

	n := &Node{Pointer: pathOrRoot(ptr)}
	n.Kind, _ = Classify(obj)
	if t, ok := obj.Get("type"); ok {
		n.Type = typeLiteral(t)
	}
	out := NewObject(obj.Len())
	for _, m := range obj.Members() {
		switch m.Key {
		case "$defs":
			if ptr == "" {
				continue
			}
			n.Extra = append(n.Extra, m)
		case "properties":
			props, ok := m.Value.(*Object)
			if !ok {
				return nil, badRequest("properties at %s must be an object", pathOrRoot(ptr))
			}
			resolved := NewObject(props.Len())
			for _, pm := range props.Members() {
				child, err := r.node(pm.Value, eng.JoinPointer(ptr+"/properties", pm.Key))
				if err != nil {
					return nil, err
				}
				n.Properties = append(n.Properties, Property{Name: pm.Key, Schema: child})
				resolved.Set(pm.Key, child.raw)
			}
			out.Set(m.Key, resolved)
			continue
		case "items":
			child, err := r.node(m.Value, ptr+"/items")
			if err != nil {
				return nil, err
			}
			n.Items = child
			out.Set(m.Key, child.raw)
			continue
		case "enum":
			vals, ok := m.Value.([]any)
			if !ok || len(vals) == 0 {
				return nil, badRequest("enum at %s must be a non-empty array", pathOrRoot(ptr))
			}
			n.Enum = vals
		case "maxLength":
			ml, ok := nonNegativeInt(m.Value)
			if !ok {
				return nil, badRequest("maxLength at %s must be a non-negative integer", pathOrRoot(ptr))
			}
			n.MaxLength = &ml
		case "required":
			if vals, ok := m.Value.([]any); ok {
				for _, v := range vals {
					if s, ok := v.(string); ok {
						n.Required = append(n.Required, s)
					}
				}
			}
		case "type":
		default:
			n.Extra = append(n.Extra, m)
		}
		out.Set(m.Key, m.Value)
	}
	n.raw = out
	return n, nil
}

// deref follows a chain of $ref starting at obj and returns the merged
// target together with the number of names it pushed on the stack.
func (r *resolver) deref(obj *Object, ptr string) (*Object, int, error) {
	pushed := 0
	for {
		v, ok := obj.Get("$ref")
		if !ok {
			return obj, pushed, nil
		}
		ref, _ := v.(string)
		name, ok := defName(ref)
		if !ok {
			return nil, pushed, &UnresolvedRefError{Ref: typeLiteral(v), Path: pathOrRoot(ptr)}
		}
		if slices.Contains(r.stack, name) {
			stack := make([]string, len(r.stack))
			for i, s := range r.stack {
				stack[i] = eng.JoinPointer(strings.TrimSuffix(defsPrefix, "/"), s)
			}
			return nil, pushed, &RefCycleError{Ref: ref, Stack: stack}
		}
		d, _ := r.defs.Get(name)
		target, ok := d.(*Object)
		if !ok {
			return nil, pushed, &UnresolvedRefError{Ref: ref, Path: pathOrRoot(ptr)}
		}
		r.stack = append(r.stack, name)
		pushed++
		obj = mergeSiblings(target, obj)
	}
}

// mergeSiblings overlays the keywords written next to a $ref onto the
// definition it points at. The definition's own $ref, if any, is kept so the
// chain can be followed.
func mergeSiblings(def, site *Object) *Object {
	out := NewObject(def.Len() + site.Len())
	for _, m := range def.Members() {
		if v, ok := site.Get(m.Key); ok && m.Key != "$ref" {
			out.Set(m.Key, v)
			continue
		}
		out.Set(m.Key, m.Value)
	}
	for _, m := range site.Members() {
		if m.Key == "$ref" || out.Has(m.Key) {
			continue
		}
		out.Set(m.Key, m.Value)
	}
	return out
}

func defName(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, defsPrefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return eng.UnescapePointerToken(rest), true
}

// maxLengthLimit bounds maxLength so generated strings stay allocatable.
const maxLengthLimit = math.MaxInt32

func nonNegativeInt(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), i >= 0 && i <= maxLengthLimit
		}
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = t
	case int:
		return t, t >= 0 && t <= maxLengthLimit
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > maxLengthLimit {
		return 0, false
	}
	return int(f), true
}

// toOrdered converts map-based trees (from encoding/json or yaml.v3
// unmarshalling) into *Object trees with sorted keys.
func toOrdered(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject(len(keys))
		for _, k := range keys {
			o.Set(k, toOrdered(t[k]))
		}
		return o
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = toOrdered(t[i])
		}
		return out
	default:
		return v
	}
}
