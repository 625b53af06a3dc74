package synthdoc_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/reoring/synthdoc"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := synthdoc.Issues{
		{Code: "invalid_type", Path: "/a"},
		{Code: "too_long", Path: "/b"},
		{Code: "required", Path: "/c"},
		{Code: "invalid_enum", Path: "/d"},
	}
	want := "invalid_type at /a; too_long at /b; required at /c; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("got %q", got)
	}
	if synthdoc.Issues(nil).Error() != "" {
		t.Fatalf("empty issues should render empty")
	}
}

func TestSchemaValidationError_Unwrap(t *testing.T) {
	err := error(&synthdoc.SchemaValidationError{Report: synthdoc.Issues{{Code: "required", Path: "/x"}}})
	iss, ok := synthdoc.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/x" {
		t.Fatalf("issues not reachable: %v", err)
	}
	if !strings.Contains(err.Error(), "required at /x") {
		t.Fatalf("message: %s", err)
	}
}

func TestInternalFault_Unwrap(t *testing.T) {
	err := error(&synthdoc.InternalFault{Op: "write", Cause: io.ErrShortWrite})
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("cause not reachable")
	}
}

func TestPathRef_Escaping(t *testing.T) {
	p := synthdoc.RootPath().Field("a/b").Index(2).Field("c~d")
	if p.Pointer() != "/a~1b/2/c~0d" {
		t.Fatalf("pointer: %s", p.Pointer())
	}
	if synthdoc.RootPath().Pointer() != "/" {
		t.Fatalf("root pointer")
	}
	is := p.Issue("x", "msg", "k", 1)
	if is.Params["k"] != 1 || is.Path != "/a~1b/2/c~0d" {
		t.Fatalf("issue: %+v", is)
	}
}
