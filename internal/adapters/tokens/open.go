package tokens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and locates the backing database.
type Options struct {
	Driver string
	Path   string
	DSN    string
}

// Open connects to the configured store. The sqlite data directory is
// created when missing.
func Open(ctx context.Context, opts Options) (token.Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(opts.Path)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
