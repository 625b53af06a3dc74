package synthdoc_test

import (
	"context"
	"os"
	"testing"

	"github.com/reoring/synthdoc"
)

func mustSchema(t *testing.T, js string) *synthdoc.Node {
	t.Helper()
	n, err := synthdoc.LoadSchema(context.Background(), synthdoc.JSONBytes([]byte(js)))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return n
}

func mustFixture(t *testing.T) (*synthdoc.Node, *synthdoc.Dataset) {
	t.Helper()
	ctx := context.Background()
	src, err := synthdoc.FileSource("testdata/pda1.schema.json")
	if err != nil {
		t.Fatalf("open schema: %v", err)
	}
	root, err := synthdoc.LoadSchema(ctx, src)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	b, err := os.ReadFile("testdata/pda1.dataset.json")
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	ds, err := synthdoc.LoadDataset(ctx, synthdoc.JSONBytes(b))
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return root, ds
}

func mustBuild(t *testing.T, root *synthdoc.Node, ds *synthdoc.Dataset, opts ...synthdoc.Option) *synthdoc.Document {
	t.Helper()
	doc, err := synthdoc.NewBuilder(opts...).Build(context.Background(), root, ds)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}
