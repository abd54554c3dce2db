package report

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CSVEmitter writes one <name>.csv per table under Dir. Files start with a
// UTF-8 BOM so spreadsheet tools pick up the encoding of CJK content.
type CSVEmitter struct {
	Dir string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func NewCSVEmitter(dir string) (*CSVEmitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output dir")
	}
	return &CSVEmitter{Dir: dir}, nil
}

func (e *CSVEmitter) Emit(t Table) error {
	path := filepath.Join(e.Dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return errors.Wrapf(err, "write bom %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return errors.Wrapf(err, "write headers %s", path)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return errors.Wrapf(err, "write rows %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return f.Close()
}

func (e *CSVEmitter) Close() error { return nil }
