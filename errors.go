package synthdoc

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by the validator and the loader.
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeDuplicateKey = "duplicate_key"
	CodeTooLong      = "too_long"
	CodeInvalidEnum  = "invalid_enum"
	CodeParseError   = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /workPlaceNames/2/seqno).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g. {"expected":"string","got":"number"})
	// for i18n and logging.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// ValidationReport is the result of Validate. An empty report means the
// document conforms.
type ValidationReport = Issues

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// OK reports whether the report contains no violations.
func (iss Issues) OK() bool { return len(iss) == 0 }

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrBadRequest is wrapped by errors caused by missing or malformed input:
// a nil schema, undecodable schema or dataset text, or a dataset entry of the
// wrong shape.
var ErrBadRequest = errors.New("bad request")

// UnsupportedSchemaTypeError reports a schema node whose type cannot be
// generated.
type UnsupportedSchemaTypeError struct {
	Path string
	Type string
}

func (e *UnsupportedSchemaTypeError) Error() string {
	return fmt.Sprintf("unsupported schema type %q at %s", e.Type, pathOrRoot(e.Path))
}

// UnsupportedFieldError reports an array field with no registered strategy.
type UnsupportedFieldError struct {
	Path  string
	Field string
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("no array strategy registered for field %q at %s", e.Field, pathOrRoot(e.Path))
}

// RefCycleError reports a $ref that revisits a definition already on the
// resolution stack.
type RefCycleError struct {
	Ref   string
	Stack []string
}

func (e *RefCycleError) Error() string {
	return fmt.Sprintf("$ref cycle at %s (%s -> %s)", e.Ref, strings.Join(e.Stack, " -> "), e.Ref)
}

// UnresolvedRefError reports a $ref whose target is not a local $defs entry.
type UnresolvedRefError struct {
	Ref  string
	Path string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("unresolved $ref %q at %s", e.Ref, pathOrRoot(e.Path))
}

// SchemaValidationError carries the report of a document that failed
// validation.
type SchemaValidationError struct {
	Report Issues
}

func (e *SchemaValidationError) Error() string {
	return "document does not conform to schema: " + e.Report.Error()
}

func (e *SchemaValidationError) Unwrap() error { return e.Report }

// InternalFault wraps an unexpected failure inside an operation.
type InternalFault struct {
	Op    string
	Cause error
}

func (e *InternalFault) Error() string {
	return fmt.Sprintf("internal fault in %s: %v", e.Op, e.Cause)
}

func (e *InternalFault) Unwrap() error { return e.Cause }

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
