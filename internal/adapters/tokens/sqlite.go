package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

const sqliteUpsert = `
	INSERT INTO tokens_info (
		token_id, token_name, token_symbol, token_totalLiquidity, token_totalSupply,
		token_tradeVolume, token_tradeVolumeUSD, token_txCount, token_untrackedVolumeUSD
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(token_id) DO UPDATE SET
		token_name = excluded.token_name,
		token_symbol = excluded.token_symbol,
		token_totalLiquidity = excluded.token_totalLiquidity,
		token_totalSupply = excluded.token_totalSupply,
		token_tradeVolume = excluded.token_tradeVolume,
		token_tradeVolumeUSD = excluded.token_tradeVolumeUSD,
		token_txCount = excluded.token_txCount,
		token_untrackedVolumeUSD = excluded.token_untrackedVolumeUSD
`

// SQLiteStore keeps decimals as TEXT so no precision is lost.
type SQLiteStore struct {
	db *sql.DB
}

var _ token.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers anyway; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	ddl, err := schema("sqlite")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// UpsertTokens writes the whole batch in one transaction.
func (s *SQLiteStore) UpsertTokens(ctx context.Context, tokens []*token.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tokens {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.Name,
			t.Symbol,
			t.TotalLiquidity.String(),
			t.TotalSupply.String(),
			t.TradeVolume.String(),
			t.TradeVolumeUSD.String(),
			t.TxCount,
			t.UntrackedVolumeUSD.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert token %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetToken(ctx context.Context, id string) (*token.Token, error) {
	query := `
		SELECT token_id, token_name, token_symbol, token_totalLiquidity, token_totalSupply,
			token_tradeVolume, token_tradeVolumeUSD, token_txCount, token_untrackedVolumeUSD
		FROM tokens_info
		WHERE token_id = ?
	`

	var (
		t                                                      token.Token
		liquidity, supply, volume, volumeUSD, untrackedVolume string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Symbol, &liquidity, &supply, &volume, &volumeUSD, &t.TxCount, &untrackedVolume,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: token_id=%s", token.ErrTokenNotFound, id)
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	d, err := decimals(t.ID, liquidity, supply, volume, volumeUSD, untrackedVolume)
	if err != nil {
		return nil, err
	}
	t.TotalLiquidity, t.TotalSupply, t.TradeVolume, t.TradeVolumeUSD, t.UntrackedVolumeUSD = d[0], d[1], d[2], d[3], d[4]

	return &t, nil
}

func (s *SQLiteStore) CountTokens(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tokens_info`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
