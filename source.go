package synthdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	eng "github.com/reoring/synthdoc/internal/engine"
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// Source abstracts over the input formats a schema or dataset can be read
// from.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// Object is an order-preserving JSON object. Decoded schemas, datasets and
// generated documents all use it so that declaration order survives.
type Object = eng.Object

// Member is a single key/value pair of an Object.
type Member = eng.Member

// NewObject returns an empty Object with room for n members.
func NewObject(n int) *Object { return eng.NewObject(n) }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return eng.NewJSONReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return eng.NewJSONBytes(b) }

// YAMLReader wraps an io.Reader as a YAML Source. Only the first document of
// a multi-document stream is read.
func YAMLReader(r io.Reader) Source { return eng.NewYAMLReader(r) }

// YAMLBytes wraps a byte slice as a YAML Source.
func YAMLBytes(b []byte) Source { return eng.NewYAMLReader(bytes.NewReader(b)) }

// FileSource reads path and picks the decoder from its extension: .yaml and
// .yml are YAML, everything else is JSON.
func FileSource(path string) (Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLBytes(b), nil
	default:
		return JSONBytes(b), nil
	}
}

// Decode reads one value from src into an order-preserving tree: objects
// become *Object, arrays []any, numbers json.Number.
func Decode(ctx context.Context, src Source, opts ...LoadOpt) (any, error) {
	return decodeSource(ctx, src, loadOpt(opts))
}

func decodeSource(ctx context.Context, src Source, opt LoadOpt) (any, error) {
	if src == nil {
		return nil, badRequest("nil source")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eo := eng.EnforceOptions{MaxDepth: opt.MaxDepth}
	switch opt.OnDuplicateKey {
	case Warn:
		eo.OnDuplicate = eng.DupWarn
	case Error:
		eo.OnDuplicate = eng.DupError
	}
	if opt.OnWarning != nil {
		eo.OnIssue = func(is eng.Issue) {
			opt.OnWarning(Issue{Path: is.Path, Code: is.Code, Message: is.Message})
		}
	}
	v, err := eng.DecodeOrdered(eng.WrapWithEnforcement(src, eo))
	if err != nil {
		var ie *eng.IssueError
		switch {
		case errors.As(err, &ie):
			iss := Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message}}
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, iss)
		case errors.Is(err, io.EOF):
			return nil, badRequest("empty input")
		default:
			return nil, badRequest("%v", err)
		}
	}
	return v, nil
}
