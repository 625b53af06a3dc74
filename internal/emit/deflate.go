package emit

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Deflate is a Stage producing zlib-wrapped DEFLATE data.
type Deflate struct {
	// Level is a zlib compression level, passed through unchanged. The zero
	// value is zlib.NoCompression.
	Level int
}

// NewDeflate returns a Deflate stage at zlib.BestCompression.
func NewDeflate() Deflate { return Deflate{Level: zlib.BestCompression} }

func (Deflate) Name() string { return "deflate" }

func (d Deflate) Apply(_ context.Context, in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, d.Level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(in); err != nil {
		return nil, fmt.Errorf("zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

// Inflate reverses Deflate.
type Inflate struct{}

func (Inflate) Name() string { return "inflate" }

func (Inflate) Apply(_ context.Context, in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib read: %w", err)
	}
	return out, nil
}
