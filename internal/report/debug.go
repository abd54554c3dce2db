package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/you/danmaku-report/internal/core"
)

// WriteDebugDump writes one plain-text file per sentiment category with
// "[score] text" lines, for manual auditing of borderline classifications.
// Callers treat a failure as a warning, not a fatal error.
func WriteDebugDump(dir string, classified []core.Classified) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create dump dir")
	}

	byCategory := map[core.Category][]string{}
	for _, c := range classified {
		line := fmt.Sprintf("[%.4f] %s", c.Score, c.Text)
		byCategory[c.Category] = append(byCategory[c.Category], line)
	}

	for _, cat := range []core.Category{core.Positive, core.Negative, core.Neutral} {
		lines := byCategory[cat]
		path := filepath.Join(dir, "debug_"+cat.String()+".txt")
		var b strings.Builder
		fmt.Fprintf(&b, "=== %s (%d items) ===\n", cat, len(lines))
		b.WriteString("format: [score] text; 0 is most negative, 1 most positive\n")
		b.WriteString(strings.Join(lines, "\n"))
		if len(lines) > 0 {
			b.WriteString("\n")
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	return nil
}
