package parquet

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"

	"github.com/klauspost/compress/zstd"
)

func init() {
	gob.Register(bool(false))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(float32(0))
	gob.Register(float64(0))
	gob.Register([]byte(nil))
}

type memEntry struct {
	Rep, Def int
	Null     bool
	Value    interface{}
}

// MemWriter is an in-memory PrimitiveWriter (io.go) used by tests in place
// of a real page/row-group writer, which spec.md §1 places out of scope.
// Closing it runs the buffered columns through a zstd encoder so the
// page-compression dependency this repo inherited from its teacher has a
// real call site (SPEC_FULL.md §11) instead of sitting unused.
//
// Grounded on the teacher's compress/zstd/zstd.go codec wiring
// (zstd.NewWriter/zstd.NewReader with a fastest-speed encoder level).
type MemWriter struct {
	mu      sync.Mutex
	columns [][]memEntry
	closed  bool
	buf     bytes.Buffer
}

// NewMemWriter prepares a MemWriter for a projection with the given number
// of leaf columns.
func NewMemWriter(numColumns int) *MemWriter {
	return &MemWriter{columns: make([][]memEntry, numColumns)}
}

func (w *MemWriter) WriteNull(_ context.Context, col, rep, def int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return &Error{Kind: UnsupportedTarget, Reason: "write to closed memory writer"}
	}
	w.columns[col] = append(w.columns[col], memEntry{Rep: rep, Def: def, Null: true})
	return nil
}

func (w *MemWriter) WriteValue(_ context.Context, col, rep, def int, value interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return &Error{Kind: UnsupportedTarget, Reason: "write to closed memory writer"}
	}
	w.columns[col] = append(w.columns[col], memEntry{Rep: rep, Def: def, Value: value})
	return nil
}

// Close serializes the buffered columns and compresses them with zstd.
// Subsequent writes fail; Reader() reverses this to build a MemReader.
func (w *MemWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(w.columns); err != nil {
		return err
	}
	zw, err := zstd.NewWriter(&w.buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	if _, err := zw.Write(raw.Bytes()); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Reader decompresses this writer's buffer into a fresh MemReader.
func (w *MemWriter) Reader() (*MemReader, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		return nil, &Error{Kind: UnsupportedTarget, Reason: "memory writer not closed"}
	}
	zr, err := zstd.NewReader(bytes.NewReader(w.buf.Bytes()))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(zr); err != nil {
		return nil, err
	}
	var columns [][]memEntry
	if err := gob.NewDecoder(&raw).Decode(&columns); err != nil {
		return nil, err
	}
	return &MemReader{columns: columns, cursor: make([]int, len(columns))}, nil
}

// MemReader is an in-memory PrimitiveReader (io.go) backed by a MemWriter's
// decompressed column buffers.
type MemReader struct {
	mu      sync.Mutex
	columns [][]memEntry
	cursor  []int
}

func (r *MemReader) Next(_ context.Context, col int) (rep, def int, value interface{}, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if col < 0 || col >= len(r.columns) {
		return 0, 0, nil, false, &Error{Kind: UnsupportedTarget, Reason: "column index out of range"}
	}
	i := r.cursor[col]
	if i >= len(r.columns[col]) {
		return 0, 0, nil, false, nil
	}
	e := r.columns[col][i]
	r.cursor[col]++
	if e.Null {
		return e.Rep, e.Def, nil, true, nil
	}
	return e.Rep, e.Def, e.Value, true, nil
}
