package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.txt")
	w := NewFileWriter(path)
	w.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	tokens := []*token.Token{{
		ID:             "0xabc",
		Name:           "Wrapped Ether",
		Symbol:         "WETH",
		TotalLiquidity: decimal.RequireFromString("1234.5"),
		TxCount:        7,
	}}

	require.NoError(t, w.Write("run-1", tokens))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "# run run-1 at 2024-05-01T10:00:00Z, 1 tokens\n"))
	assert.Contains(t, text, `"0xabc"`)
	assert.Contains(t, text, "1234.5")

	require.NoError(t, w.Write("run-2", nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "0xabc")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("no space left on device") }

func TestFileWriterEncodeReportsWriteErrors(t *testing.T) {
	w := NewFileWriter(filepath.Join(t.TempDir(), "tokens.txt"))

	err := w.encode(failingWriter{}, "run-1", []*token.Token{{ID: "0xabc"}})
	assert.ErrorContains(t, err, "no space left on device")
}

func TestFileWriterUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := NewFileWriter(filepath.Join(blocker, "tokens.txt"))
	assert.Error(t, w.Write("run-1", nil))
}
