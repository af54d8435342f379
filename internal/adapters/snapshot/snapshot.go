package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

// FileWriter dumps the last synced batch to a single file for debugging.
// Each write replaces the previous dump.
type FileWriter struct {
	path string
	cfg  *spew.ConfigState
	now  func() time.Time
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{
		path: path,
		cfg: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
		now: time.Now,
	}
}

func (w *FileWriter) Write(runID string, tokens []*token.Token) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.encode(tmp, runID, tokens); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// encode writes the header and dump. Fdump reports no errors, so the
// buffered writer keeps the first one and Flush returns it.
func (w *FileWriter) encode(out io.Writer, runID string, tokens []*token.Token) error {
	buf := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(buf, "# run %s at %s, %d tokens\n", runID, w.now().UTC().Format(time.RFC3339), len(tokens)); err != nil {
		return err
	}
	w.cfg.Fdump(buf, tokens)
	return buf.Flush()
}
