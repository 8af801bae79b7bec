package sink

import (
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// Arrow writes each table to <prefix>_<table>.feather as an IPC file of
// record batches, one batch per chunk rows.
type Arrow struct {
	prefix string
	chunk  int
}

func NewArrow(prefix string, chunk int) *Arrow {
	return &Arrow{prefix: prefix, chunk: chunk}
}

func (s *Arrow) Create(sc Schema) (TableWriter, error) {
	path := fmt.Sprintf("%s_%s.feather", s.prefix, sc.Table)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	aschema := arrowSchema(sc)
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(aschema))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	aw := &arrowWriter{writer: w, file: f}
	aw.rb = newRecordBuilder(sc, aschema, s.chunk, w.Write)
	return aw, nil
}

func (s *Arrow) Close() error { return nil }

type arrowWriter struct {
	rb     *recordBuilder
	writer *ipc.FileWriter
	file   *os.File
}

func (w *arrowWriter) Write(row []interface{}) error {
	return w.rb.append(row)
}

func (w *arrowWriter) Close() error {
	if err := w.rb.flush(); err != nil {
		return err
	}
	if err := w.writer.Close(); err != nil {
		return err
	}
	return w.file.Close()
}

func arrowSchema(sc Schema) *arrow.Schema {
	fields := make([]arrow.Field, len(sc.Columns))
	for i, col := range sc.Columns {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: col.Nullable}
	}
	md := arrow.NewMetadata([]string{"table", "schema_version"},
		[]string{sc.Table, strconv.Itoa(sc.Version)})
	return arrow.NewSchema(fields, &md)
}

func arrowType(t Type) arrow.DataType {
	switch t {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Uint8:
		return arrow.PrimitiveTypes.Uint8
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case String:
		return arrow.BinaryTypes.String
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	}
	return nil
}

// recordBuilder accumulates rows in per-column builders and hands a
// record batch to emit every chunk rows. The arrow IPC and parquet
// writers differ only in what emit does with the batch.
type recordBuilder struct {
	schema   Schema
	aschema  *arrow.Schema
	builders []array.Builder
	chunk    int
	n        int
	emit     func(arrow.Record) error
}

func newRecordBuilder(sc Schema, aschema *arrow.Schema, chunk int, emit func(arrow.Record) error) *recordBuilder {
	pool := memory.NewGoAllocator()
	builders := make([]array.Builder, len(sc.Columns))
	for i, col := range sc.Columns {
		switch col.Type {
		case Int64:
			builders[i] = array.NewInt64Builder(pool)
		case Int32:
			builders[i] = array.NewInt32Builder(pool)
		case Uint8:
			builders[i] = array.NewUint8Builder(pool)
		case Float32:
			builders[i] = array.NewFloat32Builder(pool)
		case String:
			builders[i] = array.NewStringBuilder(pool)
		case Bool:
			builders[i] = array.NewBooleanBuilder(pool)
		}
	}
	return &recordBuilder{schema: sc, aschema: aschema, builders: builders, chunk: chunk, emit: emit}
}

func (rb *recordBuilder) append(row []interface{}) error {
	if err := checkRow(rb.schema, row); err != nil {
		return err
	}
	for i, v := range row {
		if v == nil {
			rb.builders[i].AppendNull()
			continue
		}
		switch b := rb.builders[i].(type) {
		case *array.Int64Builder:
			b.Append(v.(int64))
		case *array.Int32Builder:
			b.Append(v.(int32))
		case *array.Uint8Builder:
			b.Append(v.(uint8))
		case *array.Float32Builder:
			b.Append(v.(float32))
		case *array.StringBuilder:
			b.Append(v.(string))
		case *array.BooleanBuilder:
			b.Append(v.(bool))
		}
	}
	rb.n++
	if rb.n == rb.chunk {
		return rb.flush()
	}
	return nil
}

func (rb *recordBuilder) flush() error {
	if rb.n == 0 {
		return nil
	}
	cols := make([]arrow.Array, len(rb.builders))
	for i, b := range rb.builders {
		// NewArray resets the builder for the next chunk.
		cols[i] = b.NewArray()
	}
	rec := array.NewRecord(rb.aschema, cols, int64(rb.n))
	// the record holds its own references now.
	for _, col := range cols {
		col.Release()
	}
	defer rec.Release()
	rb.n = 0
	return rb.emit(rec)
}
