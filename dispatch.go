package synthdoc

import json "github.com/goccy/go-json"

// Classify derives the Kind of a raw schema object. enum takes precedence
// over type; after that boolean and array are checked, then the remaining
// generatable types. Anything else fails with *UnsupportedSchemaTypeError.
func Classify(raw *Object) (Kind, error) {
	if raw.Has("enum") {
		return KindEnum, nil
	}
	t, _ := raw.Get("type")
	switch t {
	case "boolean":
		return KindBoolean, nil
	case "array":
		return KindArray, nil
	case "object":
		return KindObject, nil
	case "string":
		return KindString, nil
	case "number":
		return KindNumber, nil
	}
	return KindUnsupported, &UnsupportedSchemaTypeError{Type: typeLiteral(t)}
}

func typeLiteral(t any) string {
	switch v := t.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "?"
	}
	return string(b)
}
