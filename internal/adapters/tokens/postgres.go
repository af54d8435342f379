package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

const postgresUpsert = `
	INSERT INTO tokens_info (
		token_id, token_name, token_symbol, token_totalLiquidity, token_totalSupply,
		token_tradeVolume, token_tradeVolumeUSD, token_txCount, token_untrackedVolumeUSD
	) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8, $9::numeric)
	ON CONFLICT (token_id) DO UPDATE SET
		token_name = EXCLUDED.token_name,
		token_symbol = EXCLUDED.token_symbol,
		token_totalLiquidity = EXCLUDED.token_totalLiquidity,
		token_totalSupply = EXCLUDED.token_totalSupply,
		token_tradeVolume = EXCLUDED.token_tradeVolume,
		token_tradeVolumeUSD = EXCLUDED.token_tradeVolumeUSD,
		token_txCount = EXCLUDED.token_txCount,
		token_untrackedVolumeUSD = EXCLUDED.token_untrackedVolumeUSD
`

// PostgresStore stores decimals as NUMERIC. Values cross the wire as text.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ token.Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl, err := schema("postgres")
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// UpsertTokens sends one batch inside a single transaction.
func (s *PostgresStore) UpsertTokens(ctx context.Context, tokens []*token.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range tokens {
			batch.Queue(postgresUpsert,
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
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("upsert %d tokens: %w", len(tokens), err)
	}
	return nil
}

func (s *PostgresStore) GetToken(ctx context.Context, id string) (*token.Token, error) {
	query := `
		SELECT token_id, token_name, token_symbol, token_totalLiquidity::text, token_totalSupply::text,
			token_tradeVolume::text, token_tradeVolumeUSD::text, token_txCount, token_untrackedVolumeUSD::text
		FROM tokens_info
		WHERE token_id = $1
	`

	var (
		t                                                      token.Token
		liquidity, supply, volume, volumeUSD, untrackedVolume string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Symbol, &liquidity, &supply, &volume, &volumeUSD, &t.TxCount, &untrackedVolume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: token_id=%s", token.ErrTokenNotFound, id)
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	d, err := decimals(t.ID, liquidity, supply, volume, volumeUSD, untrackedVolume)
	if err != nil {
		return nil, err
	}
	t.TotalLiquidity, t.TotalSupply, t.TradeVolume, t.TradeVolumeUSD, t.UntrackedVolumeUSD = d[0], d[1], d[2], d[3], d[4]

	return &t, nil
}

func (s *PostgresStore) CountTokens(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tokens_info`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
