package token

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrTokenNotFound = errors.New("token not found")

// Token is one row of the local tokens_info table.
type Token struct {
	ID                 string
	Name               string
	Symbol             string
	TotalLiquidity     decimal.Decimal
	TotalSupply        decimal.Decimal
	TradeVolume        decimal.Decimal
	TradeVolumeUSD     decimal.Decimal
	TxCount            int64
	UntrackedVolumeUSD decimal.Decimal
}

// Writer persists a batch of tokens. Each batch is applied atomically.
type Writer interface {
	UpsertTokens(ctx context.Context, tokens []*Token) error
}

type Store interface {
	Writer
	EnsureSchema(ctx context.Context) error
	GetToken(ctx context.Context, id string) (*Token, error)
	CountTokens(ctx context.Context) (int, error)
	Close() error
}

// Dedupe keeps the last occurrence of every ID, preserving first-seen order.
func Dedupe(tokens []*Token) []*Token {
	index := make(map[string]int, len(tokens))
	result := make([]*Token, 0, len(tokens))
	for _, t := range tokens {
		if i, ok := index[t.ID]; ok {
			result[i] = t
			continue
		}
		index[t.ID] = len(result)
		result = append(result, t)
	}
	return result
}
