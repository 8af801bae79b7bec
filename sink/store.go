package sink

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// Store writes tables into a SQL database; the wired drivers are
// "sqlite" and "duckdb". All tables of a run share one connection and
// rows are inserted inside transactions of chunk rows. Each created
// table is recorded in schema_versions. Create drops any existing
// table of the same name first, so re-running into the same database
// replaces the partial artifacts of an interrupted run the same way
// the file sinks truncate theirs.
type Store struct {
	db     *sql.DB
	driver string
	chunk  int
}

func OpenStore(driver, path string, chunk int) (*Store, error) {
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("open %s database %s: %w", driver, path, err)
	}
	s := &Store{db: db, driver: driver, chunk: chunk}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS "schema_versions" ("tablename" TEXT NOT NULL, "version" INTEGER NOT NULL)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema_versions: %w", err)
	}
	return s, nil
}

func (s *Store) Create(sc Schema) (TableWriter, error) {
	// a leftover table is a partial artifact of an earlier run and must
	// not be appended to.
	if _, err := s.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q", sc.Table)); err != nil {
		return nil, fmt.Errorf("drop table %s: %w", sc.Table, err)
	}
	if _, err := s.db.Exec(createStmt(sc)); err != nil {
		return nil, fmt.Errorf("create table %s: %w", sc.Table, err)
	}
	if _, err := s.db.Exec(`DELETE FROM "schema_versions" WHERE "tablename" = ?`, sc.Table); err != nil {
		return nil, fmt.Errorf("clear version of %s: %w", sc.Table, err)
	}
	if _, err := s.db.Exec(`INSERT INTO "schema_versions" VALUES (?, ?)`, sc.Table, sc.Version); err != nil {
		return nil, fmt.Errorf("record version of %s: %w", sc.Table, err)
	}
	marks := make([]string, len(sc.Columns))
	for i := range marks {
		marks[i] = "?"
	}
	return &storeWriter{
		db:     s.db,
		schema: sc,
		insert: fmt.Sprintf("INSERT INTO %q VALUES (%s)", sc.Table, strings.Join(marks, ", ")),
		chunk:  s.chunk,
		args:   make([]interface{}, len(sc.Columns)),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createStmt(sc Schema) string {
	cols := make([]string, len(sc.Columns))
	for i, c := range sc.Columns {
		cols[i] = fmt.Sprintf("%q %s", c.Name, sqlType(c.Type))
		if !c.Nullable {
			cols[i] += " NOT NULL"
		}
	}
	return fmt.Sprintf("CREATE TABLE %q (%s)", sc.Table, strings.Join(cols, ", "))
}

func sqlType(t Type) string {
	switch t {
	case Int64:
		return "BIGINT"
	case Int32:
		return "INTEGER"
	case Uint8:
		return "SMALLINT"
	case Float32:
		return "REAL"
	case String:
		return "TEXT"
	case Bool:
		return "BOOLEAN"
	}
	return "TEXT"
}

// sqlValue widens values to what database/sql drivers accept directly.
func sqlValue(v interface{}) interface{} {
	switch v := v.(type) {
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case float32:
		return float64(v)
	}
	return v
}

type storeWriter struct {
	db     *sql.DB
	schema Schema
	insert string
	chunk  int
	tx     *sql.Tx
	stmt   *sql.Stmt
	n      int
	args   []interface{}
}

func (w *storeWriter) Write(row []interface{}) error {
	if err := checkRow(w.schema, row); err != nil {
		return err
	}
	if w.tx == nil {
		tx, err := w.db.Begin()
		if err != nil {
			return fmt.Errorf("begin %s batch: %w", w.schema.Table, err)
		}
		stmt, err := tx.Prepare(w.insert)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("prepare %s insert: %w", w.schema.Table, err)
		}
		w.tx, w.stmt = tx, stmt
	}
	for i, v := range row {
		w.args[i] = sqlValue(v)
	}
	if _, err := w.stmt.Exec(w.args...); err != nil {
		return fmt.Errorf("insert into %s: %w", w.schema.Table, err)
	}
	w.n++
	if w.n == w.chunk {
		return w.commit()
	}
	return nil
}

func (w *storeWriter) commit() error {
	if w.tx == nil {
		return nil
	}
	w.stmt.Close()
	err := w.tx.Commit()
	w.tx, w.stmt, w.n = nil, nil, 0
	if err != nil {
		return fmt.Errorf("commit %s batch: %w", w.schema.Table, err)
	}
	return nil
}

func (w *storeWriter) Close() error {
	return w.commit()
}
