// Package sink writes the normalized variant tables to storage targets.
// A Sink creates one TableWriter per logical table; every target exposes
// the same column names and semantic types so that rows written once can
// be materialized as text, columnar files, or database tables from the
// same pass.
package sink

import (
	"fmt"
	"strconv"
)

// Type is the storage-independent column type.
type Type int

const (
	Int64 Type = iota
	Int32
	Uint8
	Float32
	String
	Bool
)

func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	case Float32:
		return "float32"
	case String:
		return "string"
	case Bool:
		return "bool"
	}
	return "unknown"
}

// Column describes a single output column.
type Column struct {
	Name     string
	Type     Type
	Nullable bool
}

// Schema describes one logical table. Version is stamped into targets
// that have a place for it (file metadata, a schema_versions table) so
// consumers can tell annotation layouts apart.
type Schema struct {
	Table   string
	Version int
	Columns []Column
}

// TableWriter receives the rows of a single table. A nil value in a row
// is a null; non-nil values must match the column type (int64, int32,
// uint8, float32, string, bool). Writers consume the row before
// returning, so callers may reuse the slice.
type TableWriter interface {
	Write(row []interface{}) error
	Close() error
}

// Sink creates table writers for one storage target. Close releases
// whatever the target holds open (file handles, database connections)
// and must be called after all writers are closed.
type Sink interface {
	Create(s Schema) (TableWriter, error)
	Close() error
}

// checkRow verifies arity and value types against the schema. Writers
// call it so that a bad row fails the same way on every target.
func checkRow(s Schema, row []interface{}) error {
	if len(row) != len(s.Columns) {
		return fmt.Errorf("%s: expected %d columns, got %d", s.Table, len(s.Columns), len(row))
	}
	for i, v := range row {
		if v == nil {
			if !s.Columns[i].Nullable {
				return fmt.Errorf("%s: null in non-nullable column %s", s.Table, s.Columns[i].Name)
			}
			continue
		}
		ok := false
		switch s.Columns[i].Type {
		case Int64:
			_, ok = v.(int64)
		case Int32:
			_, ok = v.(int32)
		case Uint8:
			_, ok = v.(uint8)
		case Float32:
			_, ok = v.(float32)
		case String:
			_, ok = v.(string)
		case Bool:
			_, ok = v.(bool)
		}
		if !ok {
			return fmt.Errorf("%s: column %s wants %s, got %T", s.Table, s.Columns[i].Name, s.Columns[i].Type, v)
		}
	}
	return nil
}

// formatValue renders a value for text targets. Nulls are empty fields.
func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%v", v)
}

// Multi fans each table out to several sinks so one pass can produce
// every requested target.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Create(s Schema) (TableWriter, error) {
	ws := make([]TableWriter, 0, len(m.sinks))
	for _, snk := range m.sinks {
		w, err := snk.Create(s)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return &multiWriter{writers: ws}, nil
}

func (m *Multi) Close() error {
	var first error
	for _, snk := range m.sinks {
		if err := snk.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type multiWriter struct {
	writers []TableWriter
}

func (m *multiWriter) Write(row []interface{}) error {
	for _, w := range m.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiWriter) Close() error {
	var first error
	for _, w := range m.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
