package tokens

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

// setupTestStore creates an in-memory SQLite store with the schema applied
func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := store.EnsureSchema(context.Background()); err != nil {
		store.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		store.Close()
	}

	return store, cleanup
}

func testToken(id, name string, txCount int64) *token.Token {
	return &token.Token{
		ID:                 id,
		Name:               name,
		Symbol:             "TKN",
		TotalLiquidity:     decimal.RequireFromString("1234.567890123456789012345678"),
		TotalSupply:        decimal.RequireFromString("1000000000000000000000000000000000000000000000000"),
		TradeVolume:        decimal.RequireFromString("42.5"),
		TradeVolumeUSD:     decimal.RequireFromString("99999999999999999999.123456789"),
		TxCount:            txCount,
		UntrackedVolumeUSD: decimal.Zero,
	}
}

func assertTokenEqual(t *testing.T, got, want *token.Token) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.Symbol != want.Symbol || got.TxCount != want.TxCount {
		t.Errorf("token = %+v, want %+v", got, want)
	}
	pairs := []struct {
		name      string
		got, want decimal.Decimal
	}{
		{"TotalLiquidity", got.TotalLiquidity, want.TotalLiquidity},
		{"TotalSupply", got.TotalSupply, want.TotalSupply},
		{"TradeVolume", got.TradeVolume, want.TradeVolume},
		{"TradeVolumeUSD", got.TradeVolumeUSD, want.TradeVolumeUSD},
		{"UntrackedVolumeUSD", got.UntrackedVolumeUSD, want.UntrackedVolumeUSD},
	}
	for _, p := range pairs {
		if !p.got.Equal(p.want) {
			t.Errorf("%s = %s, want %s", p.name, p.got, p.want)
		}
	}
}

func TestSQLiteStore_UpsertTokens(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("insert new tokens", func(t *testing.T) {
		tokens := []*token.Token{testToken("0xa", "Alpha", 1), testToken("0xb", "Beta", 2)}
		if err := store.UpsertTokens(ctx, tokens); err != nil {
			t.Fatalf("UpsertTokens() error = %v", err)
		}

		count, err := store.CountTokens(ctx)
		if err != nil {
			t.Fatalf("CountTokens() error = %v", err)
		}
		if count != 2 {
			t.Errorf("CountTokens() = %d, want 2", count)
		}

		got, err := store.GetToken(ctx, "0xa")
		if err != nil {
			t.Fatalf("GetToken() error = %v", err)
		}
		assertTokenEqual(t, got, tokens[0])
	})

	t.Run("existing id overwrites every column", func(t *testing.T) {
		updated := testToken("0xa", "Alpha v2", 10)
		updated.Symbol = "ALP"
		updated.TradeVolume = decimal.RequireFromString("0.000000000000000001")

		if err := store.UpsertTokens(ctx, []*token.Token{updated}); err != nil {
			t.Fatalf("UpsertTokens() error = %v", err)
		}

		got, err := store.GetToken(ctx, "0xa")
		if err != nil {
			t.Fatalf("GetToken() error = %v", err)
		}
		assertTokenEqual(t, got, updated)

		count, _ := store.CountTokens(ctx)
		if count != 2 {
			t.Errorf("CountTokens() = %d, want 2", count)
		}
	})

	t.Run("same batch twice is idempotent", func(t *testing.T) {
		batch := []*token.Token{testToken("0xc", "Gamma", 3), testToken("0xd", "Delta", 4)}
		for i := 0; i < 2; i++ {
			if err := store.UpsertTokens(ctx, batch); err != nil {
				t.Fatalf("UpsertTokens() run %d error = %v", i, err)
			}
		}

		count, _ := store.CountTokens(ctx)
		if count != 4 {
			t.Errorf("CountTokens() = %d, want 4", count)
		}
		got, err := store.GetToken(ctx, "0xd")
		if err != nil {
			t.Fatalf("GetToken() error = %v", err)
		}
		assertTokenEqual(t, got, batch[1])
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		if err := store.UpsertTokens(ctx, nil); err != nil {
			t.Fatalf("UpsertTokens(nil) error = %v", err)
		}
	})
}

func TestSQLiteStore_UpsertRollsBack(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.UpsertTokens(ctx, []*token.Token{testToken("0xa", "Alpha", 1)}); err != nil {
		t.Fatalf("UpsertTokens() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := store.UpsertTokens(cancelled, []*token.Token{testToken("0xa", "Changed", 9), testToken("0xb", "Beta", 2)})
	if err == nil {
		t.Fatal("UpsertTokens() with cancelled context expected error")
	}

	count, _ := store.CountTokens(ctx)
	if count != 1 {
		t.Errorf("CountTokens() = %d, want 1 after failed batch", count)
	}
	got, _ := store.GetToken(ctx, "0xa")
	if got.Name != "Alpha" {
		t.Errorf("Name = %s, want Alpha after failed batch", got.Name)
	}
}

func TestSQLiteStore_GetTokenNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetToken(context.Background(), "0xmissing")
	if !errors.Is(err, token.ErrTokenNotFound) {
		t.Errorf("GetToken() error = %v, want ErrTokenNotFound", err)
	}
}

func TestSQLiteStore_EnsureSchemaIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := store.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() run %d error = %v", i, err)
		}
	}

	if err := store.UpsertTokens(ctx, []*token.Token{testToken("0xa", "Alpha", 1)}); err != nil {
		t.Fatalf("UpsertTokens() error = %v", err)
	}
	count, err := store.CountTokens(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountTokens() = %d, %v; want 1, nil", count, err)
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := Open(context.Background(), Options{Driver: DriverSQLite, Path: filepath.Join(dir, "tokens.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mysql"}); err == nil {
		t.Error("Open() with unknown driver returned nil error")
	}
}
