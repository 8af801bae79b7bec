package sink

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
)

// Parquet writes each table to <prefix>_<table>.parquet, snappy
// compressed, one row group per chunk rows.
type Parquet struct {
	prefix string
	chunk  int
}

func NewParquet(prefix string, chunk int) *Parquet {
	return &Parquet{prefix: prefix, chunk: chunk}
}

func (s *Parquet) Create(sc Schema) (TableWriter, error) {
	path := fmt.Sprintf("%s_%s.parquet", s.prefix, sc.Table)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	aschema := arrowSchema(sc)
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(aschema, f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pw := &parquetWriter{writer: fw}
	pw.rb = newRecordBuilder(sc, aschema, s.chunk, fw.Write)
	return pw, nil
}

func (s *Parquet) Close() error { return nil }

type parquetWriter struct {
	rb     *recordBuilder
	writer *pqarrow.FileWriter
}

func (w *parquetWriter) Write(row []interface{}) error {
	return w.rb.append(row)
}

func (w *parquetWriter) Close() error {
	if err := w.rb.flush(); err != nil {
		return err
	}
	// the parquet writer closes the underlying file with the footer.
	return w.writer.Close()
}
