package synthdoc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/synthdoc"
)

func TestLoadDataset_FirstKeyValues(t *testing.T) {
	_, ds := mustFixture(t)
	pool, ok := ds.Pool("surname")
	if !ok {
		t.Fatalf("surname pool missing")
	}
	if diff := cmp.Diff([]string{"de Vries", "Jansen", "Müller"}, pool); diff != "" {
		t.Fatalf("pool mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"forenames", "surname", "town"}, ds.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if _, ok := ds.Pool("unused"); ok {
		t.Fatalf("second key should not become a field")
	}
}

func TestLoadDataset_YAMLAndScalars(t *testing.T) {
	y := "code:\n  values: [1, true, x]\nempty: {}\nnone:\n  values: []\n"
	ds, err := synthdoc.LoadDataset(context.Background(), synthdoc.YAMLBytes([]byte(y)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pool, _ := ds.Pool("code")
	if diff := cmp.Diff([]string{"1", "true", "x"}, pool); diff != "" {
		t.Fatalf("pool mismatch (-want +got):\n%s", diff)
	}
	if ds.Len() != 1 {
		t.Fatalf("empty entries should be skipped, got %v", ds.Fields())
	}
}

func TestLoadDataset_BadShapes(t *testing.T) {
	cases := map[string]string{
		"root-array":   `[]`,
		"entry-array":  `{"a":["x"]}`,
		"value-string": `{"a":{"k":"x"}}`,
		"nested":       `{"a":{"k":[{"x":1}]}}`,
	}
	for name, js := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := synthdoc.LoadDataset(context.Background(), synthdoc.JSONBytes([]byte(js)))
			if !errors.Is(err, synthdoc.ErrBadRequest) {
				t.Fatalf("want ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestDataset_NilIsEmpty(t *testing.T) {
	var ds *synthdoc.Dataset
	if _, ok := ds.Pool("x"); ok || ds.Len() != 0 || ds.Fields() != nil {
		t.Fatalf("nil dataset should be empty")
	}
}
