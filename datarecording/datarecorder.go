// Package datarecording stores run output (trajectory frames, energy rows,
// step timings) in a SQLite database. Entries are buffered and written in
// batched transactions; a process-exit hook flushes whatever is left.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table for entries shaped like sampleEntry
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing names of all tables
	ListTables() []string

	// Flush writes all buffered entries into the database
	Flush()

	// Close flushes and closes the database
	Close()
}

// New creates a DataRecorder writing to the given path. An empty path picks
// a unique name.
func New(path string) DataRecorder {
	if path == "" {
		path = "stride_run_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording run output to %s\n", filename)

	w := &sqliteWriter{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a DataRecorder on an existing database connection.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	insertSQL  string
	entries    []any
}

type sqliteWriter struct {
	db *sql.DB

	tables     map[string]*table
	batchSize  int
	entryCount int
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	mustBeFlatStruct(sampleEntry)

	names := structs.Names(sampleEntry)
	columns := strings.Join(names, ", \n\t")

	createSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + columns + "\n" + `);`
	w.mustExecute(createSQL)

	placeholders := make([]string, len(names))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		insertSQL: "INSERT INTO " + tableName + " VALUES (" +
			strings.Join(placeholders, ", ") + ")",
	}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("entry type %T does not match table %s",
			entry, tableName))
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	return tables
}

func (w *sqliteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for name, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		stmt, err := w.db.Prepare(t.insertSQL)
		if err != nil {
			panic(fmt.Errorf("preparing insert for %s: %w", name, err))
		}

		for _, entry := range t.entries {
			v := reflect.ValueOf(entry)
			values := make([]any, v.NumField())
			for i := range values {
				values[i] = v.Field(i).Interface()
			}

			if _, err := stmt.Exec(values...); err != nil {
				panic(err)
			}
		}

		t.entries = nil
		stmt.Close()
	}

	w.entryCount = 0
}

func (w *sqliteWriter) Close() {
	w.Flush()

	if err := w.db.Close(); err != nil {
		panic(err)
	}
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.db.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}

func mustBeFlatStruct(entry any) {
	t := reflect.TypeOf(entry)
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("entry must be a struct, got %T", entry))
	}

	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
		default:
			panic(fmt.Sprintf("field %s has unsupported type %s",
				t.Field(i).Name, t.Field(i).Type))
		}
	}
}
