package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCSVEmitterWritesBOMAndRows(t *testing.T) {
	dir := t.TempDir()
	e, err := NewCSVEmitter(dir)
	if err != nil {
		t.Fatalf("new emitter: %v", err)
	}
	table := Table{
		Name:    "1_overview",
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "弹幕"}},
	}
	if err := e.Emit(table); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "1_overview.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatal("missing UTF-8 BOM")
	}
	want := "a,b\n1,弹幕\n"
	if string(data[len(utf8BOM):]) != want {
		t.Fatalf("content: got %q want %q", data[len(utf8BOM):], want)
	}
}

func TestSQLiteEmitterArchivesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	e, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	table := Table{
		Name:    "5_effective_count",
		Headers: []string{"effective_comments"},
		Rows:    [][]string{{"7"}},
	}
	if err := e.Emit(table); err != nil {
		t.Fatalf("emit: %v", err)
	}

	var count int
	row := e.db.QueryRow(`SELECT COUNT(*) FROM report_rows WHERE run_id = ? AND report = ?;`,
		e.runID, table.Name)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan: %v", err)
	}
	// Header row plus one data row.
	if count != 2 {
		t.Fatalf("rows archived: got %d want 2", count)
	}

	var cells string
	row = e.db.QueryRow(`SELECT cells FROM report_rows WHERE run_id = ? AND report = ? AND seq = 1;`,
		e.runID, table.Name)
	if err := row.Scan(&cells); err != nil {
		t.Fatalf("scan cells: %v", err)
	}
	if cells != `["7"]` {
		t.Fatalf("cells: got %q", cells)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMultiEmitterFansOut(t *testing.T) {
	a := &memEmitter{}
	b := &memEmitter{}
	m := Multi{a, b}
	if err := m.Emit(Table{Name: "x"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(a.tables) != 1 || len(b.tables) != 1 {
		t.Fatalf("fan-out: a=%d b=%d", len(a.tables), len(b.tables))
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

type memEmitter struct {
	tables []Table
}

func (m *memEmitter) Emit(t Table) error { m.tables = append(m.tables, t); return nil }
func (m *memEmitter) Close() error       { return nil }
