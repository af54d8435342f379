package http

import (
	"context"

	"github.com/jatsharma/stackera-project/internal/application/listing"
)

// TokensService proxies the token listing.
type TokensService interface {
	ListTokens(ctx context.Context, p listing.Params) ([]byte, error)
}

type SwapsService interface {
	RecentSwaps(ctx context.Context) ([]byte, error)
}

type PriceService interface {
	GetETHPrice(ctx context.Context) (string, error)
}

// TokenStats reports on the locally synced table.
type TokenStats interface {
	CountTokens(ctx context.Context) (int, error)
}

// ErrorResponse is the body of every 400 answer.
type ErrorResponse struct {
	Message string `json:"message"`
}

type ETHPriceResponse struct {
	ETHPrice string `json:"ETHPRICE"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Service      string `json:"service"`
	Version      string `json:"version"`
	TokensStored *int   `json:"tokens_stored,omitempty"`
}
