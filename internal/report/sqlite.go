package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT NOT NULL PRIMARY KEY,
  started TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS report_rows (
  run_id TEXT NOT NULL,
  report TEXT NOT NULL,
  seq INTEGER NOT NULL,
  cells TEXT NOT NULL,
  PRIMARY KEY (run_id, report, seq)
);`

// SQLiteEmitter archives every report row, keyed by a per-run id so
// successive runs over different exports coexist in one database. Row seq 0
// is the header row.
type SQLiteEmitter struct {
	db    *sql.DB
	runID string
}

func OpenSQLite(path string) (*SQLiteEmitter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	if _, err := db.Exec(`PRAGMA journal_mode=wal;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "set WAL")
	}
	ApplySQLitePragmas(context.Background(), db)

	runID := uuid.NewString()
	started := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := db.Exec(`INSERT INTO runs (run_id, started) VALUES (?, ?);`, runID, started); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "record run")
	}
	return &SQLiteEmitter{db: db, runID: runID}, nil
}

func (e *SQLiteEmitter) RunID() string { return e.runID }

func (e *SQLiteEmitter) Emit(t Table) error {
	const q = `INSERT INTO report_rows (run_id, report, seq, cells)
VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, report, seq) DO NOTHING;`

	tx, err := e.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	write := func(seq int, cells []string) error {
		data, err := json.Marshal(cells)
		if err != nil {
			return errors.Wrap(err, "encode cells")
		}
		_, err = tx.Exec(q, e.runID, t.Name, seq, string(data))
		return errors.Wrapf(err, "insert %s row %d", t.Name, seq)
	}

	if err := write(0, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := write(i+1, row); err != nil {
			return err
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (e *SQLiteEmitter) Close() error { return e.db.Close() }
