package synthdoc

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/synthdoc/i18n"
)

// Validate parses doc as JSON and checks it against root. It returns every
// violation found; the error is non-nil only when doc is not JSON text.
func Validate(root *Node, doc []byte) (ValidationReport, error) {
	if root == nil {
		return nil, badRequest("nil schema")
	}
	var report Issues
	opt := LoadOpt{OnDuplicateKey: Warn, OnWarning: func(is Issue) {
		is.Message = i18n.T(is.Code, nil)
		report = append(report, is)
	}}
	v, err := decodeSource(context.Background(), JSONBytes(doc), opt)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return append(report, ValidateValue(root, v)...), nil
}

// ValidateValue checks an already decoded value against root. v may be an
// *Object tree or the map-based output of encoding/json.
func ValidateValue(root *Node, v any) ValidationReport {
	var report Issues
	validateNode(root, v, RootPath(), &report)
	return report
}

func validateNode(n *Node, v any, p PathRef, report *Issues) {
	if n == nil {
		return
	}
	if n.Type != "" && !typeMatches(n.Raw(), n.Type, v) {
		got := jsonType(v)
		*report = append(*report, p.Issue(CodeInvalidType,
			i18n.T(CodeInvalidType, map[string]string{"expected": n.Type, "got": got}),
			"expected", n.Type, "got", got))
		return
	}
	if n.Enum != nil && !containsJSON(n.Enum, v) {
		*report = append(*report, p.Issue(CodeInvalidEnum, i18n.T(CodeInvalidEnum, nil), "allowed", n.Enum))
	}
	switch t := v.(type) {
	case string:
		if n.MaxLength != nil {
			if l := utf8.RuneCountInString(t); l > *n.MaxLength {
				*report = append(*report, p.Issue(CodeTooLong,
					i18n.T(CodeTooLong, map[string]string{"max": strconv.Itoa(*n.MaxLength)}),
					"max", *n.MaxLength, "got", l))
			}
		}
	case []any:
		if n.Items != nil {
			for i, e := range t {
				validateNode(n.Items, e, p.Index(i), report)
			}
		}
	case *Object:
		validateObject(n, t.Get, p, report)
	case map[string]any:
		validateObject(n, func(k string) (any, bool) { e, ok := t[k]; return e, ok }, p, report)
	}
}

func validateObject(n *Node, get func(string) (any, bool), p PathRef, report *Issues) {
	for _, prop := range n.Properties {
		if e, ok := get(prop.Name); ok {
			validateNode(prop.Schema, e, p.Field(prop.Name), report)
		}
	}
	for _, name := range n.Required {
		if _, ok := get(name); !ok {
			*report = append(*report, p.Field(name).Issue(CodeRequired, i18n.T(CodeRequired, nil), "property", name))
		}
	}
}

// typeMatches checks the "type" keyword. A type array matches when any of
// its entries does; unknown type names are not checked.
func typeMatches(raw *Object, literal string, v any) bool {
	if t, ok := raw.Get("type"); ok {
		if list, ok := t.([]any); ok {
			for _, e := range list {
				if s, ok := e.(string); ok && typeMatches(nil, s, v) {
					return true
				}
			}
			return false
		}
	}
	switch literal {
	case "object":
		switch v.(type) {
		case *Object, map[string]any:
			return true
		}
		return false
	case "array":
		_, ok := v.([]any)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "null":
		return v == nil
	case "number":
		_, ok := toRat(v)
		return ok
	case "integer":
		r, ok := toRat(v)
		return ok && r.IsInt()
	}
	return true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case *Object, map[string]any:
		return "object"
	}
	if r, ok := toRat(v); ok {
		if r.IsInt() {
			return "integer"
		}
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func toRat(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(t), true
	case int:
		return new(big.Rat).SetInt64(int64(t)), true
	case int64:
		return new(big.Rat).SetInt64(t), true
	}
	return nil, false
}

func containsJSON(list []any, v any) bool {
	for _, e := range list {
		if equalJSON(e, v) {
			return true
		}
	}
	return false
}

// equalJSON compares two decoded values by JSON semantics: numbers by value,
// objects by members regardless of order.
func equalJSON(a, b any) bool {
	if ra, ok := toRat(a); ok {
		rb, ok := toRat(b)
		return ok && ra.Cmp(rb) == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalJSON(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		if m, ok := b.(map[string]any); ok {
			b = toOrdered(m)
		}
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, m := range x.Members() {
			yv, ok := y.Get(m.Key)
			if !ok || !equalJSON(m.Value, yv) {
				return false
			}
		}
		return true
	case map[string]any:
		return equalJSON(toOrdered(x), b)
	}
	return false
}
