package synthdoc_test

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/reoring/synthdoc"
)

type issueKey struct{ Code, Path string }

func keys(iss synthdoc.Issues) []issueKey {
	out := make([]issueKey, len(iss))
	for i, is := range iss {
		out[i] = issueKey{is.Code, is.Path}
	}
	return out
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	root, _ := mustFixture(t)
	doc := `{
		"seqno": "one",
		"personalDetails": {"forenames": "aaaaaaaaaaaaaaaaaaaaaaaaa", "sex": "03"},
		"nationalities": ["NL", "XX"],
		"workPlaceNames": [{"seqno": 1}, {"seqno": true}],
		"decision": {"status": "granted", "final": "yes"}
	}`
	report, err := synthdoc.Validate(root, []byte(doc))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []issueKey{
		{synthdoc.CodeInvalidType, "/seqno"},
		{synthdoc.CodeTooLong, "/personalDetails/forenames"},
		{synthdoc.CodeInvalidEnum, "/personalDetails/sex"},
		{synthdoc.CodeInvalidEnum, "/nationalities/1"},
		{synthdoc.CodeInvalidType, "/workPlaceNames/1/seqno"},
		{synthdoc.CodeInvalidType, "/decision/final"},
	}
	if diff := cmp.Diff(want, keys(report)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if report[0].Params["expected"] != "number" || report[0].Params["got"] != "string" {
		t.Fatalf("params: %v", report[0].Params)
	}
	if report[1].Message != "longer than 20 characters" {
		t.Fatalf("message: %q", report[1].Message)
	}
}

func TestValidate_Required(t *testing.T) {
	root, _ := mustFixture(t)
	report, err := synthdoc.Validate(root, []byte(`{"seqno":1}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []issueKey{
		{synthdoc.CodeRequired, "/personalDetails"},
		{synthdoc.CodeRequired, "/nationalities"},
	}
	if diff := cmp.Diff(want, keys(report)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_MaxLengthCountsCodePoints(t *testing.T) {
	root := mustSchema(t, `{"type":"object","properties":{"s":{"type":"string","maxLength":5}}}`)
	report, err := synthdoc.Validate(root, []byte(`{"s":"ééééé"}`))
	if err != nil || !report.OK() {
		t.Fatalf("report=%v err=%v", report, err)
	}
	report, _ = synthdoc.Validate(root, []byte(`{"s":"éééééé"}`))
	if len(report) != 1 || report[0].Code != synthdoc.CodeTooLong {
		t.Fatalf("report=%v", report)
	}
}

func TestValidate_NumbersAndTypeLists(t *testing.T) {
	root := mustSchema(t, `{"type":"object","properties":{
		"n":{"type":"number"},
		"i":{"type":"integer"},
		"e":{"enum":[1,"a",null]},
		"u":{"type":["string","null"]}
	}}`)
	report, err := synthdoc.Validate(root, []byte(`{"n":1.5e3,"i":4.0,"e":1.0,"u":null}`))
	if err != nil || !report.OK() {
		t.Fatalf("report=%v err=%v", report, err)
	}
	report, _ = synthdoc.Validate(root, []byte(`{"n":"1","i":4.5,"e":2,"u":3}`))
	want := []issueKey{
		{synthdoc.CodeInvalidType, "/n"},
		{synthdoc.CodeInvalidType, "/i"},
		{synthdoc.CodeInvalidEnum, "/e"},
		{synthdoc.CodeInvalidType, "/u"},
	}
	if diff := cmp.Diff(want, keys(report)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_DuplicateKeyIsReported(t *testing.T) {
	root := mustSchema(t, `{"type":"object","properties":{"a":{"type":"boolean"}}}`)
	report, err := synthdoc.Validate(root, []byte(`{"a":true,"a":true}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]issueKey{{synthdoc.CodeDuplicateKey, "/a"}}, keys(report)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	root := mustSchema(t, `{"type":"object"}`)
	_, err := synthdoc.Validate(root, []byte(`{"a":`))
	if !errors.Is(err, synthdoc.ErrBadRequest) {
		t.Fatalf("want ErrBadRequest, got %v", err)
	}
	if _, err := synthdoc.Validate(nil, []byte(`{}`)); !errors.Is(err, synthdoc.ErrBadRequest) {
		t.Fatalf("nil schema: %v", err)
	}
}

func TestValidateValue_MapInput(t *testing.T) {
	root, ds := mustFixture(t)
	doc := mustBuild(t, root, ds)
	var v any
	if err := json.Unmarshal(doc.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report := synthdoc.ValidateValue(root, v); !report.OK() {
		t.Fatalf("violations: %v", report)
	}
	if report := synthdoc.ValidateValue(root, doc.Root()); !report.OK() {
		t.Fatalf("violations on tree: %v", report)
	}
}
