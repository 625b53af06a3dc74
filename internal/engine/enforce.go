package engine

import (
	"strconv"
	"strings"
)

// DuplicatePolicy controls how repeated object keys are treated.
type DuplicatePolicy int

const (
	DupIgnore DuplicatePolicy = iota
	DupWarn
	DupError
)

// Issue is a lightweight problem found while streaming tokens.
type Issue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is returned by an enforcing source when an Issue is fatal.
type IssueError struct{ Issue }

func (e *IssueError) Error() string { return e.Path + ": " + e.Message }

// EnforceOptions controls the checks applied by WrapWithEnforcement.
type EnforceOptions struct {
	MaxDepth    int
	OnDuplicate DuplicatePolicy
	// OnIssue receives non-fatal issues (duplicate keys under DupWarn).
	OnIssue func(Issue)
}

type frame struct {
	object bool
	path   string
	keys   map[string]struct{}
	key    string
	next   int
}

type enforcingSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

// WrapWithEnforcement returns a TokenSource that rejects nesting deeper than
// MaxDepth and applies the duplicate key policy.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingSource{inner: inner, opt: opt}
}

func (e *enforcingSource) Location() int64 { return e.inner.Location() }

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		e.stack = append(e.stack, frame{object: tok.Kind == KindBeginObject, path: path, keys: map[string]struct{}{}})
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, &IssueError{Issue{Code: "parse_error", Path: pointerOrRoot(path), Message: "max depth exceeded"}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				is := Issue{Code: "duplicate_key", Path: pointerOrRoot(JoinPointer(top.path, tok.String)), Message: "key '" + tok.String + "' duplicated"}
				if e.opt.OnDuplicate == DupError {
					return Token{}, &IssueError{is}
				}
				if e.opt.OnIssue != nil {
					e.opt.OnIssue(is)
				}
			}
			top.keys[tok.String] = struct{}{}
			top.key = tok.String
		}
	default:
		e.valuePath()
	}
	return tok, nil
}

// valuePath returns the pointer of the value about to be read and advances
// the enclosing container.
func (e *enforcingSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.object {
		return JoinPointer(top.path, top.key)
	}
	i := top.next
	top.next++
	return JoinPointer(top.path, strconv.Itoa(i))
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends one RFC 6901 reference token to base.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// UnescapePointerToken reverses the RFC 6901 escaping of a single token.
func UnescapePointerToken(s string) string { return pointerUnescaper.Replace(s) }
