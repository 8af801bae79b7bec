package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
	"github.com/brentp/xopen"
)

// CSV writes each table to <prefix>_<table>.csv.gz with a header row.
// Output is gzipped by default; with bgzip it is written as bgzf blocks,
// which is still a valid gzip stream but can be indexed later.
type CSV struct {
	prefix string
	bgzip  bool
}

func NewCSV(prefix string, bgzip bool) *CSV {
	return &CSV{prefix: prefix, bgzip: bgzip}
}

func (s *CSV) Create(sc Schema) (TableWriter, error) {
	path := fmt.Sprintf("%s_%s.csv.gz", s.prefix, sc.Table)
	w := &csvWriter{schema: sc}
	if s.bgzip {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		w.file = f
		w.out = bgzf.NewWriter(f, 1)
	} else {
		out, err := xopen.Wopen(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		w.out = out
	}
	w.cw = csv.NewWriter(w.out)

	names := make([]string, len(sc.Columns))
	for i, col := range sc.Columns {
		names[i] = col.Name
	}
	if err := w.cw.Write(names); err != nil {
		return nil, fmt.Errorf("%s: write header: %w", path, err)
	}
	return w, nil
}

func (s *CSV) Close() error { return nil }

type csvWriter struct {
	schema Schema
	cw     *csv.Writer
	out    io.WriteCloser
	file   *os.File // underlying file when wrapped in bgzf
	fields []string
}

func (w *csvWriter) Write(row []interface{}) error {
	if err := checkRow(w.schema, row); err != nil {
		return err
	}
	if w.fields == nil {
		w.fields = make([]string, len(row))
	}
	for i, v := range row {
		w.fields[i] = formatValue(v)
	}
	return w.cw.Write(w.fields)
}

func (w *csvWriter) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return err
	}
	if err := w.out.Close(); err != nil {
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
